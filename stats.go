package dedup

// Histogram tallies how many clusters have each size, mirroring the
// original's clusterStats (a map<size_t,size_t> in the C++ source).
// Iteration order over the returned map is unspecified.
func Histogram(clusters []*Cluster) map[int]int {
	counts := make(map[int]int, len(clusters))
	for _, c := range clusters {
		counts[c.Size]++
	}
	return counts
}
