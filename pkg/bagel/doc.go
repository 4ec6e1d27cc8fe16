// Package bagel is the public face of the dataflow engine.
//
// An Engine carries the node type registry, the filesystem that graph files
// are read from and written to, and an error latch that keeps the first
// failure of any of its methods until ClearErr is called:
//
//	eng := bagel.New()
//	g, err := eng.Load(ctx, "squares.yml", "")
//	if err != nil {
//		return err
//	}
//	_ = eng.SetInputs(g, []float64{3, 5})
//	_ = eng.Evaluate(ctx, g)
//	fmt.Println(eng.Outputs(g))
//
// Graphs are built and inspected through the methods of Graph; the engine
// adds file handling, input feeding and the robustness search on top.
package bagel
