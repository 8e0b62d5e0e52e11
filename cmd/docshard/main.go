// Command docshard is a reference harness that drives a balancer.LoadBalancer
// from a line-oriented script file, rendering each response with
// docstore.Render (SPEC_FULL.md §6). The library itself has no notion of a
// script format or a process entrypoint; this binary exists the same way the
// teacher ships cmd/bench alongside the library it benchmarks.
package main

func main() {
	Execute()
}
