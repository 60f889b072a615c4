// Package octree implements the spatial approximator used for repulsion.
//
// The tree is rebuilt from scratch every tick. Each node keeps a small group
// of mutually close "inner" bodies and the running centroid of that group.
// A body joins a node's group when it lies within a fixed inner distance of
// the centroid; otherwise it is routed to one of eight lazily created
// children chosen by the sign of its offset from the centroid on each axis.
//
// Estimation sums the force law exactly between members of the same group
// and treats every other group as a point mass at its centroid, weighted by
// the group size. The near/far split is decided at insertion time by the
// distance threshold, not by an opening-angle test at query time.
//
//	root := octree.Build(bodies, 0.036)
//	force := root.Estimate(b, octree.Repulsion(100, 0.1))
package octree
