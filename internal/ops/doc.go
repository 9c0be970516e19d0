// Drives a workspace through one lifecycle operation.
//
// Every operation (load, unload, show, run) moves through the same three
// transitions, each available only on the stage value produced by the one
// before it:
//
//	Space --Prepare--> Prepared --Build--> Built --Execute--> Info
//
// The stage types have no exported fields and no constructors other than
// [NewSpace] and the transitions themselves, so a caller cannot obtain a
// [Built] without having built a [Prepared], and the operation chosen at
// [NewSpace] is carried through to [Built.Execute]. Each stage value is
// consumed by its transition; using it again returns [ErrOutOfOrder].
//
// Prepare checks preconditions, Build produces the operation's artifact
// (the build context for load, the exec request for run, the summary for
// show) and Execute hands the artifact to the container engine. Artifacts
// that hold resources implement [io.Closer] and are closed after Execute,
// whether it succeeds or not, or by [Built.Discard].
//
// Example usage:
//
//	space := ops.NewSpace(ws, ops.Load(env, ops.LoadOptions{}))
//	prepared, err := space.Prepare(ctx)
//	if err != nil {
//	    return err
//	}
//	built, err := prepared.Build(ctx)
//	if err != nil {
//	    return err
//	}
//	info, err := built.Execute(ctx)
package ops
