// Package recommend is the content-based recommendation engine.
//
// A request flows through these steps, each a plain function over the
// catalog snapshot loaded for that request:
//
//	CombineFeatures -> BuildIndex -> AggregatePreferences -> Rank
//	    -> Eligibility.Allows -> Bucketize
//
// Engine.Recommend wires them together. The package has no knowledge of
// storage or transport.
package recommend
