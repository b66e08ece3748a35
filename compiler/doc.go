/*

Process of compilation

Program Graph + per-node OpenQASM-3 snippets ->
	S0 graph ingest ->
Scheduled Graph ->
	S2 nested expansion (repeat/if-then-else) ->
Flat Graph ->
	S3 per-node preprocessing (rename, inline, parse IO) ->
Prepared Nodes ->
	S4 ancilla-reuse optimization ->
Slot Assignment ->
	S5 merging ->
Merged Program ->
	S6 postprocessing ->
Canonical OpenQASM-3.1 Text

*/
package compiler
