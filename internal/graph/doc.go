// Package graph holds the dense index form of a bipartite review graph.
//
// The estimator iterates over integer indices rather than string ids. An Index
// maps ids to positions once, and a Graph stores the edges with adjacency lists
// in both directions so each round is a sequence of slice scans.
package graph
