/* Package main: MForth -- a small FORTH for small machines

MForth keeps every user word in one byte arena, the user dictionary. A word is
a short header (its name, the name length, and a link to the previous word)
followed by a body of single byte opcodes. Opcodes below 250 name a built-in
word directly; the rest are reached through the EXT1, EXT2 and EXT3 prefix
bytes, each followed by an offset into its band. Numbers are coded in the
fewest bytes that hold them, calls to other user words as a USERWORD opcode
and a 16 bit handle.

There are four dictionaries. The Base dictionary holds the built-in words that
can be coded into user words. The Interactive dictionary holds the words that
only make sense typed at the console: defining words, FORGET, SAVE and LOAD,
DECOMPILE. The Generator dictionary holds the compile time words: control
flow, locals, assert and debug zones. The User dictionary is the arena itself.

A console token is looked up, in order, among locals (while compiling), the
Interactive dictionary (while not compiling), the User dictionary, the
Generator dictionary (while compiling), and the Base dictionary; then as a
number or a 'c character literal. Lookups ignore case, and an entry is also
found by the capital letters of its name, so TStop may be typed as TS.

Errors come in three kinds. Runtime errors abort the running word, printing a
backtrace line for each nested word as it unwinds. Compile errors abandon the
word being defined, rolling the arena back to where it started. Interactive
errors discard the rest of the console line; inside FSTART .. FEND they skip
the rest of the file up to FEND.

Besides the console, words may run on background threads (THREAD, THPRIO) and
on periodic timer callbacks (TIMER). They all share the arena, so the
dictionary cannot change while any of them is active.

SAVE and LOAD keep one dictionary image in a non-volatile store: a file, an
SQLite database, or memory. A saved start word (@START) runs at boot.

DECOMPILE prints a word as console text that codes the very same bytes when
typed back, using hidden names like JMP and _LOOP for branches with relative
addresses. DECOMPILEALL prints the whole dictionary that way, ready to be
pasted into another system.

See mforth.toml.example for the host configuration.
*/
package main
