// Package analyze reads sentence graphs and reports structural properties of
// their enhanced dependencies. Nothing in this package modifies a graph.
//
//   - [ClassifyDegree] and [Degrees]: in/out-degree classes
//   - [FindCycle], [HasCycle]: first directed cycle in the enhanced graph
//   - [HasBasicCycle]: cycle check on the basic tree
//   - [IsDisconnected]: more than one non-singleton component
//   - [Classify]: basic-vs-enhanced comparison and enhancement patterns
//   - [Stats]: an accumulator for corpus-level counts
package analyze
