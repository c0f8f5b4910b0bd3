/*
Package pipeline synthesizes the external command that transforms one file.

	+-----------+     +----------------+     +-----------------+
	| FileEntry | --> |   Synthesize   | --> | command string  |
	+-----------+     | (per format)   |     | (for executor)  |
	                  +-------+--------+     +-----------------+
	                          |
	                  +-------+--------+
	                  | SelectDelimiter|
	                  +----------------+

🎯 Purpose:
- Composes decode/substitute/encode stages into one executable pipeline
- Picks a substitution delimiter that cannot collide with replaced text
- Keeps binary containers intact by routing them through their codec

🔄 Dispatch:
1. passthrough / sequence-read: copy or link, name rewritten, sidecar too
2. binary-alignment: decode | substitute | encode (optionally re-headered)
3. text formats: optional decompress | substitute | optional recompress

📝 Design Philosophy:
Synthesis is pure: nothing touches the filesystem and no process is
spawned. The only fatal condition is delimiter exhaustion. Substitution
clauses follow map order; LintMap surfaces key-overlap pairs whose result
would be order-dependent.
*/
package pipeline
