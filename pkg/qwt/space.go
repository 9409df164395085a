package qwt

// SpaceReport breaks down the owned storage of a built Index by
// component, rather than exposing only the opaque total §6 asks for.
type SpaceReport struct {
	BitVectorWords uint64
	RankCounters   uint64
	SelectSamples  uint64
	PrefixTables   uint64
}

// Total returns the sum of all components: space_usage_bytes(index).
func (r SpaceReport) Total() uint64 {
	return r.BitVectorWords + r.RankCounters + r.SelectSamples + r.PrefixTables
}

// SpaceUsage returns a structural breakdown of the index's owned
// storage across all levels.
func (idx *Index[S]) SpaceUsage() SpaceReport {
	var rpt SpaceReport
	for _, lvl := range idx.levels {
		rpt.BitVectorWords += uint64(len(lvl.qv.BitVector().Words())) * 8

		sc := lvl.rank.SuperCounts()
		rpt.RankCounters += uint64(len(sc)) * 4 * 8
		bc := lvl.rank.BlockCounts()
		rpt.RankCounters += uint64(len(bc)) * 4 * 2

		for s := uint8(0); s < 4; s++ {
			rpt.SelectSamples += uint64(len(lvl.sel.Samples(s))) * 8
		}
		rpt.PrefixTables += 4 * 8
	}
	return rpt
}

// SpaceUsageBytes returns the total bytes held by the index's owned
// storage: space_usage_bytes(index) -> integer.
func (idx *Index[S]) SpaceUsageBytes() uint64 {
	return idx.SpaceUsage().Total()
}
