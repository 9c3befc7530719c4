package ngs

import (
	"bytes"
	stdgzip "compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFastq(t *testing.T, dir, name string, seqs []string) string {
	t.Helper()
	var buf bytes.Buffer
	for i, seq := range seqs {
		buf.WriteString("@record")
		buf.WriteString(string(rune('0' + i)))
		buf.WriteByte('\n')
		buf.WriteString(seq)
		buf.WriteByte('\n')
		buf.WriteString("+\n")
		for range seq {
			buf.WriteByte('I')
		}
		buf.WriteByte('\n')
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func writeGzipFastq(t *testing.T, dir, name string, seqs []string) string {
	t.Helper()
	var raw bytes.Buffer
	for i, seq := range seqs {
		raw.WriteString("@record")
		raw.WriteString(string(rune('0' + i)))
		raw.WriteByte('\n')
		raw.WriteString(seq)
		raw.WriteByte('\n')
		raw.WriteString("+\n")
		for range seq {
			raw.WriteByte('I')
		}
		raw.WriteByte('\n')
	}

	var gz bytes.Buffer
	w := stdgzip.NewWriter(&gz)
	_, err := w.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, gz.Bytes(), 0o644))
	return path
}

func TestSourceNextBuildsCombinedFingerprint(t *testing.T) {
	dir := t.TempDir()
	read1 := writeFastq(t, dir, "read1.fastq", []string{"ACGT", "TTTT"})
	read2 := writeFastq(t, dir, "read2.fastq", []string{"GGCC", "AAAA"})
	umi := writeFastq(t, dir, "umi.fastq", []string{"AC", "GT"})

	src, err := Open([]string{read1, read2, umi}, 2)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 6, src.Length())

	id, fp, filtered, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, 0, id)
	assert.False(t, filtered)
	// A=0 C=1 G=2 T=3; first two bases of each stream: AC, GG, AC.
	assert.Equal(t, []byte{0, 1, 2, 2, 0, 1}, []byte(fp))

	id, _, _, ok = src.Next()
	require.True(t, ok)
	assert.Equal(t, 1, id)

	_, _, _, ok = src.Next()
	assert.False(t, ok, "expected EOF after two records")
	assert.NoError(t, src.Err())
}

func TestSourceFiltersUnknownNucleotides(t *testing.T) {
	dir := t.TempDir()
	read1 := writeFastq(t, dir, "read1.fastq", []string{"ACNT"})
	read2 := writeFastq(t, dir, "read2.fastq", []string{"GGCC"})
	umi := writeFastq(t, dir, "umi.fastq", []string{"AC"})

	src, err := Open([]string{read1, read2, umi}, 4)
	require.NoError(t, err)
	defer src.Close()

	_, _, filtered, ok := src.Next()
	require.True(t, ok)
	assert.True(t, filtered, "a record containing N should be filtered")
}

func TestSourceFiltersShortSequence(t *testing.T) {
	dir := t.TempDir()
	read1 := writeFastq(t, dir, "read1.fastq", []string{"AC"})
	read2 := writeFastq(t, dir, "read2.fastq", []string{"GG"})
	umi := writeFastq(t, dir, "umi.fastq", []string{"AC"})

	src, err := Open([]string{read1, read2, umi}, 4)
	require.NoError(t, err)
	defer src.Close()

	_, _, filtered, ok := src.Next()
	require.True(t, ok)
	assert.True(t, filtered, "a sequence shorter than the word length should be filtered")
}

func TestSourceGzipTransparent(t *testing.T) {
	dir := t.TempDir()
	read1 := writeGzipFastq(t, dir, "read1.fastq.gz", []string{"ACGT"})
	read2 := writeFastq(t, dir, "read2.fastq", []string{"ACGT"})
	umi := writeFastq(t, dir, "umi.fastq", []string{"ACGT"})

	src, err := Open([]string{read1, read2, umi}, 4)
	require.NoError(t, err)
	defer src.Close()

	_, _, filtered, ok := src.Next()
	require.True(t, ok, "expected a record from the gzip-compressed stream")
	assert.False(t, filtered)
}

func TestSourceReportsDesyncedStreams(t *testing.T) {
	dir := t.TempDir()
	read1 := writeFastq(t, dir, "read1.fastq", []string{"ACGT", "ACGT"})
	read2 := writeFastq(t, dir, "read2.fastq", []string{"ACGT"}) // one record short
	umi := writeFastq(t, dir, "umi.fastq", []string{"AC", "AC"})

	src, err := Open([]string{read1, read2, umi}, 2)
	require.NoError(t, err)
	defer src.Close()

	_, _, filtered, ok := src.Next()
	require.True(t, ok)
	assert.False(t, filtered, "first record is fully synchronized")

	// read2 is exhausted: the second record is filtered (short read) and a
	// desync warning is recorded, but iteration continues.
	_, _, filtered, ok = src.Next()
	require.True(t, ok)
	assert.True(t, filtered)
	assert.Error(t, src.Err(), "expected a desync warning once streams disagree on EOF")

	_, _, _, ok = src.Next()
	assert.False(t, ok, "expected EOF once every stream is exhausted")
}

func TestOpenMissingFile(t *testing.T) {
	dir := t.TempDir()
	read2 := writeFastq(t, dir, "read2.fastq", []string{"ACGT"})
	umi := writeFastq(t, dir, "umi.fastq", []string{"AC"})

	_, err := Open([]string{filepath.Join(dir, "missing.fastq"), read2, umi}, 2)
	assert.Error(t, err)
}
