// Command fatigueanalyze is the reference CLI wrapping the fatigue
// simulation core: load a roster and a parameter bundle, run Analyze,
// and print the resulting monthly analysis.
package main

func main() {
	Execute()
}
