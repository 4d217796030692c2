// Package conllu streams CoNLL-U treebanks sentence by sentence.
//
// A [Reader] splits input into [Block]s at blank lines without interpreting
// the node lines; [Block.Parse] turns a block into a [depgraph.Graph]. This
// keeps reading cheap and lets callers parse blocks on worker goroutines.
//
//	err := conllu.Stream(ctx, os.Stdin, func(b conllu.Block) error {
//	    g, err := b.Parse(logger)
//	    if err != nil {
//	        return fmt.Errorf("sentence %d (line %d): %w", b.Index+1, b.Line, err)
//	    }
//	    return w.WriteGraph(g)
//	})
//
// Lines may be up to [MaxLineSize] bytes long.
//
// [depgraph.Graph]: github.com/matzehuels/udgraph/pkg/depgraph.Graph
package conllu
