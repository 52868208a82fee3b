package main

import (
	"fmt"
	"strings"
)

// dictFlags qualify how a dictionary entry may be used.
type dictFlags uint8

const (
	dfNI        dictFlags = 1 << iota // not usable interactively
	dfAddr                            // a u16 operand follows the opcode
	dfNoCompile                       // internal marker, never resolved by name
	dfDirective                       // reads the next token itself
	dfByte                            // a byte operand follows the opcode
)

// dictEntry is one built-in word; handlers receive the context they run on
// and the entry's static argument.
type dictEntry struct {
	name    string
	help    string
	handler func(ctx *Context, arg int32)
	arg     int32
	flags   dictFlags
}

type dictionary []dictEntry

// Fixed opcodes; everything from opFirstWord on is assigned by table order.
const (
	opEndWord = iota
	opExt1
	opExt2
	opExt3
	opVar
	opVarH
	opVarC
	opNum1
	opNum2
	opNum4
	opSString
	opPString
	opUserWord
	opThread
	opThreadPrio
	opVal
	opValH
	opValC
	opToVal
	opToValH
	opToValC
	opAddToVal
	opAddToValH
	opAddToValC
	opCreate
	opJmp
	opJz
	opJnz
	opDo
	opPlusDo
	opMinusDo
	opLoop
	opAtLoop
	opOf
	opSetR
	opGetR
	opAddR

	opFirstWord
)

// Codes from ext1Base on are coded as EXTn followed by code-base.
const (
	ext1Base  = 250
	ext2Base  = 500
	ext3Base  = 750
	codeLimit = 1000
)

// Opcodes of named base words the compiler emits on its own.
var (
	opAssert int
	opToR    int
	opUnloop int
	opDrop   int
)

var (
	baseWords        dictionary
	interactiveWords dictionary
	generatorWords   dictionary
)

func init() {
	baseWords = dictionary{
		opEndWord: {"ENDWORD", "End of word marker", nil, 0, dfNoCompile},

		opExt1: {"EXT1", "Extended code group 1", (*Context).extended, ext1Base, dfNoCompile},
		opExt2: {"EXT2", "Extended code group 2", (*Context).extended, ext2Base, dfNoCompile},
		opExt3: {"EXT3", "Extended code group 3", (*Context).extended, ext3Base, dfNoCompile},

		opVar:  {"VAR", "32 bit variable marker", (*Context).variable, 0, dfNoCompile},
		opVarH: {"VARH", "16 bit variable marker", (*Context).variable, 0, dfNoCompile},
		opVarC: {"VARC", "8 bit variable marker", (*Context).variable, 0, dfNoCompile},

		opNum1: {"1B_NUM", "1 byte constant number", (*Context).num1, 0, dfNoCompile},
		opNum2: {"2B_NUM", "2 bytes constant number", (*Context).num2, 0, dfNoCompile},
		opNum4: {"4B_NUM", "4 bytes constant number", (*Context).num4, 0, dfNoCompile},

		opSString: {"S_STRING", "String marker", (*Context).pushString, 0, dfNoCompile},
		opPString: {"P_STRING", "Print string marker", (*Context).printString, 0, dfNoCompile},

		opUserWord: {"USERWORD", "Execute user word", (*Context).userWord, 0, dfNoCompile},

		opThread:     {"THRD", "Start thread from word marker", (*Context).threadWord, 0, dfNoCompile},
		opThreadPrio: {"THRD_PRIO", "Start thread from word marker using priority", (*Context).threadWord, 1, dfNoCompile},

		opVal:  {"VAL", "32 bit value marker", (*Context).value, 4, dfNoCompile},
		opValH: {"VALH", "16 bit value marker", (*Context).value, 2, dfNoCompile},
		opValC: {"VALC", "8 bit value marker", (*Context).value, 1, dfNoCompile},

		opToVal:  {"TOVAL", "Set 32bit value", (*Context).toValue, 4, dfNoCompile | dfAddr},
		opToValH: {"TOHVAL", "Set 16bit value", (*Context).toValue, 2, dfNoCompile | dfAddr},
		opToValC: {"TOCVAL", "Set 8bit value", (*Context).toValue, 1, dfNoCompile | dfAddr},

		opAddToVal:  {"ADDTOVAL", "Add to 32bit value", (*Context).addToValue, 4, dfNoCompile | dfAddr},
		opAddToValH: {"ADDTOHVAL", "Add to 16bit value", (*Context).addToValue, 2, dfNoCompile | dfAddr},
		opAddToValC: {"ADDTOCVAL", "Add to 8bit value", (*Context).addToValue, 1, dfNoCompile | dfAddr},

		opCreate: {"CRT", "Create region start", (*Context).variable, 0, dfNoCompile},

		opJmp:     {"JMP", "Unconditional jump", (*Context).jump, 0, dfNoCompile | dfAddr},
		opJz:      {"JZ", "Jump if zero", (*Context).jumpIfZero, 0, dfNoCompile | dfAddr},
		opJnz:     {"JNZ", "Jump if not zero", (*Context).jumpIfNotZero, 0, dfNoCompile | dfAddr},
		opDo:      {"DO", "Start of normal loop", (*Context).doLoop, doNormal, dfNoCompile},
		opPlusDo:  {"+DO", "Start of positive check loop", (*Context).doLoop, doPlus, dfNoCompile | dfAddr},
		opMinusDo: {"-DO", "Start of negative check loop", (*Context).doLoop, doMinus, dfNoCompile | dfAddr},
		opLoop:    {"LOOP", "End of loop", (*Context).loop, 0, dfNoCompile | dfAddr},
		opAtLoop:  {"@LOOP", "End of loop", (*Context).stepLoop, 0, dfNoCompile | dfAddr},
		opOf:      {"OF", "OF in CASE block", (*Context).of, 0, dfNoCompile | dfAddr},

		opSetR: {"SETR", "Set RStack value", (*Context).setLocal, 0, dfNoCompile | dfByte},
		opGetR: {"GETR", "Get RStack value", (*Context).getLocal, 0, dfNoCompile | dfByte},
		opAddR: {"ADDR", "Add to RStack value", (*Context).addLocal, 0, dfNoCompile | dfByte},

		{"ASRT_CHECK", "Assert runtime check", (*Context).assertCheck, 0, dfNI},
		{"EXIT", "Exit from current word", (*Context).exit, 0, dfNI},
		{"ABORT", "Abort to interactive mode", (*Context).abortWord, 0, dfNI},
		{"EXECUTE", "Execute from address#(uaddr)$", (*Context).executeWord, 0, 0},

		{"DROP", "Drop stack top#(n)$", (*Context).drop, 0, 0},
		{"DROPN", "Drop n elements from stack#(a1)..(an)(n)$", (*Context).dropN, 0, 0},
		{"DUP", "Duplicate stack top#(n)$(n)(n)", (*Context).dup, 0, 0},
		{"?DUP", "Duplicate stack top if not zero#0|0->0|(n)$(n)(n)", (*Context).qdup, 0, 0},
		{"DUPN", "Duplicate n elements #(a1)..(an)(n)$(a1)..(an)(a1)..(an)", (*Context).dupN, 0, 0},
		{"PICK", "Stack pick element #(ni)..(n0)(i)$(ni)..(n0)(ni)", (*Context).pick, 0, 0},
		{"CLEAR", "Clears the parameter stack", (*Context).clearStack, 0, 0},
		{"SWAPN", "Swap top by nth element#(an)..(a0)(n)$(a0)(an-1)..(a1)(an)", (*Context).swapN, 0, 0},
		{"ROT", "Rotates top 3 stack elements#(n3)(n2)(n1)$(n2)(n1)(n3)", (*Context).rot, 0, 0},
		{"ROLL", "Rotates n+1 stack elements#(an)..(a0)(n)$(an-1)..(a0)(an)", (*Context).roll, 0, 0},
		{"OVER", "Pushes the second element#(n1)(n2)$(n1)(n2)(n1)", (*Context).over, 0, 0},
		{"DEPTH", "Shows stack size before this call#$(depth)", (*Context).depth, 0, 0},
		{"TRUE", "Pushes a true value on the stack#$(true)", (*Context).literal, -1, 0},
		{"FALSE", "Pushes a false value on the stack#$(false)", (*Context).literal, 0, 0},
		{"UNUSED", "Gives user dictionary free memory#$(bytes)", (*Context).unused, 0, 0},

		{"+", "Add #(a)(b)$(a+b)", (*Context).dual, dualAdd, 0},
		{"-", "Subtract #(a)(b)$(a-b)", (*Context).dual, dualSub, 0},
		{"*", "Multiply #(a)(b)$(a*b)", (*Context).dual, dualMul, 0},
		{"/", "Divide #(a)(b)$(a/b)", (*Context).dual, dualDiv, 0},
		{"MOD", "Modulus #(a)(b)$(a%b)", (*Context).dual, dualMod, 0},
		{"SWAP", "Stack Swap two top elements#(a)(b)$(b)(a)", (*Context).dual, dualSwap, 0},
		{"NIP", "Eliminate second stack element#(a)(b)$(b)", (*Context).dual, dualNip, 0},
		{"MAX", "Find maximum value#(a)(b)$max(a,b)", (*Context).dual, dualMax, 0},
		{"MIN", "Find minimum value#(a)(b)$min(a,b)", (*Context).dual, dualMin, 0},
		{"TUCK", "Put top below second#(a)(b)$(b)(a)(b)", (*Context).dual, dualTuck, 0},
		{"/MOD", "Calculates division and residue#(a)(b)$(a%b)(a/b)", (*Context).dual, dualDivMod, 0},

		{"<", "Less than#(a)(b)$(a<b)", (*Context).relational, relLess, 0},
		{">", "Greater than#(a)(b)$(a>b)", (*Context).relational, relGreater, 0},
		{"<=", "Less or equal than#(a)(b)$(a<=b)", (*Context).relational, relLessEqual, 0},
		{">=", "Greater or equal than#(a)(b)$(a>=b)", (*Context).relational, relGreaterEqual, 0},
		{"=", "Equal than#(a)(b)$(a=b)", (*Context).relational, relEqual, 0},
		{"<>", "Different than#(a)(b)$(a!=b)", (*Context).relational, relUnequal, 0},

		{"INVERT", "Bitwise not#(a)$(~a)", (*Context).bitwise, bitNot, 0},
		{"AND", "Bitwise And#(a)(b)$(a&b)", (*Context).bitwise, bitAnd, 0},
		{"OR", "Bitwise Or#(a)(b)$(a|b)", (*Context).bitwise, bitOr, 0},
		{"XOR", "Bitwise Xor#(a)(b)$(a^b)", (*Context).bitwise, bitXor, 0},
		{"LSHIFT", "Bitwise Shift Left#(a)(b)$(a<<b)", (*Context).bitwise, bitShl, 0},
		{"RSHIFT", "Bitwise Shift Right#(a)(b)$(a>>b)", (*Context).bitwise, bitShr, 0},

		{"NEGATE", "Changes top sign#(a)$(-a)", (*Context).unary, unNegate, 0},
		{"NOT", "Check against zero#(a)$(a==0)", (*Context).unary, unNot, 0},
		{"ABS", "Absolute value#(a)$(|a|)", (*Context).unary, unAbs, 0},
		{"1+", "Increment top#(a)$(a+1)", (*Context).unary, unInc, 0},
		{"1-", "Decrement top#(a)$(a-1)", (*Context).unary, unDec, 0},
		{"2+", "Increment top by 2#(a)$(a+2)", (*Context).unary, unInc2, 0},
		{"2-", "Decrement top by 2#(a)$(a-2)", (*Context).unary, unDec2, 0},
		{"2*", "Double top#(a)$(a*2)", (*Context).unary, unDouble, 0},
		{"2/", "Halve top#(a)$(a/2)", (*Context).unary, unHalve, 0},
		{"0<", "Check if top < 0#(a)$(a<0)", (*Context).unary, unLess0, 0},
		{"0>", "Check if top > 0#(a)$(a>0)", (*Context).unary, unGreater0, 0},
		{"0=", "Check if top = 0#(a)$(a=0)", (*Context).unary, unEqual0, 0},
		{"0<>", "Check if top <> 0#(a)$(a<>0)", (*Context).unary, unUnequal0, 0},
		{"CELL+", "Add cell size#(a)$(a+Cell_size)", (*Context).unary, unCellPlus, 0},
		{"CELLS", "Multiply by cell size#(a)$(a*Cell_size)", (*Context).unary, unCells, 0},
		{"HCELL+", "Add half cell size#(a)$(a+Cell_size/2)", (*Context).unary, unHCellPlus, 0},
		{"HCELLS", "Multiply by half cell size#(a)$(a*Cell_size/2)", (*Context).unary, unHCells, 0},

		{"@", "32 bit Variable Recall#(addr)$(value)", (*Context).fetch, 4, 0},
		{"!", "32 bit Variable Store#(value)(addr)$", (*Context).store, 4, 0},
		{"H@", "16 bit Variable Recall#(pos)$(value)", (*Context).fetch, 2, 0},
		{"H!", "16 bit Variable Store#(value)(pos)$", (*Context).store, 2, 0},
		{"C@", "8 bit Variable Recall#(pos)$(value)", (*Context).fetch, 1, 0},
		{"C!", "8 bit Variable Store#(value)(pos)$", (*Context).store, 1, 0},
		{"V@", "Intelligent Variable Recall#(pos)$(value)", (*Context).varFetch, 0, 0},
		{"V!", "Intelligent Variable Store#(value)(pos)$", (*Context).varStore, 0, 0},
		{"+!", "32 bit Variable Store and add#(+val)(addr)$", (*Context).addStore, 4, 0},
		{"H+!", "16 bit Variable Store and add#(+val)(pos)$", (*Context).addStore, 2, 0},
		{"C+!", "8 bit Variable Store and add#(+val)(pos)$", (*Context).addStore, 1, 0},
		{"V+!", "Intelligent Variable Store and add#(+val)(pos)$", (*Context).varAddStore, 0, 0},

		{"S16U", "Convert int16 to uint16#(int16)$(uint16)", (*Context).unary, unS16U, 0},
		{"U16S", "Convert uint16 to int16#(uint16)$(int16)", (*Context).unary, unU16S, 0},
		{"S8U", "Convert int8 to uint8#(int8)$(uint8)", (*Context).unary, unS8U, 0},
		{"U8S", "Convert uint8 to int8#(uint8)$(int8)", (*Context).unary, unU8S, 0},

		{"PAGE", "Erases screen", (*Context).page, 0, 0},
		{"CR", "Prints a line break", (*Context).cr, 0, 0},
		{"SPACE", "Prints a space", (*Context).emitConst, ' ', 0},
		{"BS", "Prints a backspace", (*Context).emitConst, '\b', 0},
		{"CSI", "Prints Control Sequence Introducer", (*Context).csi, 0, 0},
		{"VERBOSE", "Sets verbose level#(vLevel)$", (*Context).setVerbose, 0, 0},
		{".R", "Prints stack top right justified#(n)(npad)$", (*Context).dotR, 10, 0},
		{"X.R", "Prints stack top right justified in hexadecimal#(n)(npad)$", (*Context).dotR, 16, 0},
		{".", "Prints stack top", (*Context).dot, 0, 0},
		{"X.", "Prints stack top as unsigned hexadecimal", (*Context).dotHex, 0, 0},
		{"U.", "Prints stack top as unsigned", (*Context).dotU, 0, 0},
		{"SPACES", "Prints n spaces#(n)$", (*Context).spaces, 0, 0},
		{"AT-XY", "Go to screen position (0,0)=ULC#(x)(y)$", (*Context).atXY, 0, 0},
		{"EMIT", "Send one character to screen#(ascii)$", (*Context).emit, 0, 0},
		{"SETBREAK", "Set line break sequence#(n)$  0:CR+LF 1:CR 2:LF", (*Context).setBreak, 0, 0},
		{"COLOR", "Set color#(color)$", (*Context).color, 0, 0},

		{".S", "Stack dump", (*Context).dotS, 0, 0},
		{"WORDS", "Dumps all known words", (*Context).words, 0, 0},
		{"UWORDS", "Dumps user words", (*Context).userWords, 0, 0},
		{"ULIST", "User word list", (*Context).userList, 0, 0},
		{"DUMP", "Dumps program memory#(start)(length)$", (*Context).dump, 0, 0},
		{"UDATA", "Shows user dictionary data information", (*Context).userData, 0, 0},
		{"MEMDUMP", "Dumps memory#(start)(length)$", (*Context).memDump, 0, 0},
		{"SHOWFLAGS", "Show global flags", (*Context).showFlags, 0, 0},
		{"DB_DEC", "Debug with decimal numbers", (*Context).dumpRadix, 10, 0},
		{"DB_HEX", "Debug with hexadecimal numbers", (*Context).dumpRadix, 16, 0},
		{"LIMITS", "Show current MForth limits", (*Context).showLimits, 0, 0},

		{"UWDUMP", "Dumps an user word", (*Context).userWordDump, 0, dfDirective},
		{"SEE", "See a user word code", (*Context).see, 0, dfDirective},

		{"RDUMP", "Return stack dump", (*Context).rdump, 0, 0},
		{">R", "PS to RS#(n)$ R:$(n)", (*Context).toR, 0, 0},
		{"R>", "RS to PS#$(n) R:(n)$", (*Context).fromR, 0, 0},
		{"R@", "Get RS top without popping#$(n) R:(n)$(n)", (*Context).rindex, 0, 0},
		{"I", "Get first do index#$(n) R:(n)$(n)", (*Context).rindex, 0, 0},
		{"J", "Get second do index#$(n3) R:(n3)(n2)(n1)$(n3)(n2)(n1)", (*Context).rindex, 2, 0},
		{"K", "Get third do index#$(n5) R:(n5)..(n1)$(n5)..(n1)", (*Context).rindex, 4, 0},
		{"RCLEAR", "Clear return stack", (*Context).rclear, 0, 0},
		{"RDROP", "Drop top of return stack", (*Context).rdrop, 0, 0},
		{"UNLOOP", "Undo loop effect on return stack#R (n)(n)$", (*Context).unloop, 0, 0},

		{"TLIST", "Thread list", (*Context).threadList, 0, 0},
		{"TKILL", "Thread kill#(nthread)$", (*Context).threadKill, 0, 0},
		{"TKILLALL", "Kill all threads$", (*Context).threadKillAll, 0, 0},

		{"CREATE", "Create a new data space", (*Context).create, 0, dfDirective},
		{"ALLOT", "Get size bytes of data space#(size)$", (*Context).allot, 0, 0},
		{",", "Allocate and set one Cell#(data)$", (*Context).comma, 4, 0},
		{"H,", "Allocate and set one Half Cell#(data)$", (*Context).comma, 2, 0},
		{"C,", "Allocate and set one Char#(data)$", (*Context).comma, 1, 0},
		{"'", "Obtains an user word address#$(Uaddr)", (*Context).tick, 0, dfDirective},
		{"HERE", "Push next code position#$(Uaddr)", (*Context).here, 0, 0},

		{"COUNT", "Get count from counted string#(addr)$(addr+1)(u)", (*Context).count, 0, 0},
		{"TYPE", "Type a counted string from addr and count#(addr)(u)$", (*Context).typeString, 0, 0},
		{"STYPE", "Type a counted string from addr#(addr)$", (*Context).typeCounted, 0, 0},
		{"CTYPE", "Type a null terminated string from addr#(addr)$", (*Context).typeCString, 0, 0},
		{"PAD", "Show the PAD address#$(addr)", (*Context).pad, 0, 0},
	}

	if len(baseWords) > ext1Base {
		panic(fmt.Sprintf("base dictionary overflows the primary code band: %d", len(baseWords)))
	}
	// host port words start the first extension band
	baseWords = append(baseWords, make(dictionary, ext1Base-len(baseWords))...)
	baseWords = append(baseWords, portWords()...)
	if len(baseWords) > codeLimit {
		panic(fmt.Sprintf("base dictionary overflows the extension bands: %d", len(baseWords)))
	}

	opAssert = baseWords.mustCode("ASRT_CHECK")
	opToR = baseWords.mustCode(">R")
	opUnloop = baseWords.mustCode("UNLOOP")
	opDrop = baseWords.mustCode("DROP")

	interactiveWords = dictionary{
		{":", "Start of new word", (*Context).colon, 0, dfDirective},
		{"(", "Start of comment", (*Context).comment, 0, 0},
		{".(", "Start of echo comment", (*Context).dotComment, 0, 0},

		{"CONSTANT", "Create a constant#(value)$", (*Context).constant, 0, dfDirective},
		{"VARIABLE", "Create a 32 bit variable", (*Context).defineVariable, opVar, dfDirective},
		{"HVARIABLE", "Create a 16 bit variable", (*Context).defineVariable, opVarH, dfDirective},
		{"CVARIABLE", "Create a 8 bit variable", (*Context).defineVariable, opVarC, dfDirective},
		{"VALUE", "Create a 32 bit value#(value)$", (*Context).defineValue, opVal, dfDirective},
		{"HVALUE", "Create a 16 bit value#(value)$", (*Context).defineValue, opValH, dfDirective},
		{"CVALUE", "Create a 8 bit value#(value)$", (*Context).defineValue, opValC, dfDirective},
		{"EXECUTE", "Execute from address#(uaddr)$", (*Context).executePrimary, 0, 0},

		{"TO", "Set a value#(value)$", (*Context).to, 0, dfDirective},
		{"+TO", "Add to a value#(value)$", (*Context).to, 1, dfDirective},

		{"FORGET", "Forget a user word#Usage: FORGET <word>", (*Context).forget, 0, 0},
		{"FORGETALL", "Forget all user words", (*Context).forgetAll, 0, 0},
		{"SAVE", "Save the User Dictionary", (*Context).saveDict, 0, 0},
		{"LOAD", "Load the User Dictionary", (*Context).loadDict, 0, 0},

		{"@START", "Set a boot start word", (*Context).setStartWord, 0, dfDirective},
		{"]", "Enter compilation mode", (*Context).enterCompile, 0, 0},
		{"WH", "Gives help about a word", (*Context).wordHelp, 0, dfDirective},
		{"BASEWORDS", "Gives help about all built-in words", (*Context).baseWordsHelp, 0, 0},

		{"FSTART", "Marks the start of a series of lines", (*Context).fileStart, 0, 0},
		{"FEND", "Marks the end of a series of lines", (*Context).fileEnd, 0, 0},
		{"DEBUG-ON", "Compile debug and assertions", (*Context).debugMode, 1, 0},
		{"DEBUG-OFF", "Don't compile debug nor assertions", (*Context).debugMode, 0, 0},

		{"THREAD", "Launch a new thread. Returns nthread or 0 on error#$(nthread)", (*Context).threadLaunch, 0, dfDirective},
		{"THPRIO", "Launch a new thread with priority#(priority)$(nthread)", (*Context).threadLaunch, 1, dfDirective},

		{"DECOMPILE", "Decompile a user word code", (*Context).decompileWord, 0, dfDirective},
		{"DECOMPILEALL", "Decompile the full User Dictionary", (*Context).decompileAll, 0, 0},
	}

	generatorWords = dictionary{
		{";", "End of word", (*Context).semicolon, 0, 0},
		{"(", "Start of comment", (*Context).comment, 0, 0},
		{".(", "Start of echo comment", (*Context).dotComment, 0, 0},

		{"RECURSE", "Call to the word itself", (*Context).recurse, 0, 0},
		{"[", "Enter interactive mode", (*Context).leaveCompile, 0, 0},
		{"LITERAL", "Codes number from stack#(n)$", (*Context).compileLiteral, 0, 0},

		{"IF", "Conditional from IF ELSE ENDIF", (*Context).compileIf, 0, 0},
		{"ELSE", "Conditional from IF ELSE ENDIF", (*Context).compileElse, 0, 0},
		{"ENDIF", "Conditional from IF ELSE ENDIF", (*Context).compileEndIf, 0, 0},
		{"THEN", "Conditional from IF ELSE THEN", (*Context).compileEndIf, 0, 0},

		{"DO", "Start of loop#(limit)(index)$", (*Context).compileDo, opDo, 0},
		{"+DO", "Start of loop with positive check#(limit)(index)$", (*Context).compileDo, opPlusDo, 0},
		{"-DO", "Start of loop with negative check#(limit)(index)$", (*Context).compileDo, opMinusDo, 0},
		{"LOOP", "End of loop", (*Context).compileLoop, opLoop, 0},
		{"@LOOP", "End of loop with explicit increment#(inc)$", (*Context).compileLoop, opAtLoop, 0},
		{"LEAVE", "Exit one loop level", (*Context).compileLeave, opJmp, 0},
		{"?LEAVE", "Get top and Exit one loop level if not zero#(flag)$", (*Context).compileLeave, opJnz, 0},

		{"BEGIN", "Start of BEGIN UNTIL loop", (*Context).compileBegin, 0, 0},
		{"UNTIL", "End of BEGIN UNTIL loop#(flag)$", (*Context).compileUntil, 0, 0},
		{"WHILE", "Part of BEGIN WHILE REPEAT loop#(flag)$", (*Context).compileWhile, 0, 0},
		{"REPEAT", "End of BEGIN WHILE REPEAT loop", (*Context).compileRepeat, 0, 0},
		{"AGAIN", "End of BEGIN AGAIN loop", (*Context).compileRepeat, 0, 0},

		{"CASE", "Start of CASE check#(value)$(value)", (*Context).compileCase, 0, 0},
		{"OF", "CASE comparison#(value)(tag)$(value)", (*Context).compileOf, 0, 0},
		{"ENDOF", "End of subblock in CASE#(value)$(value)", (*Context).compileEndOf, 0, 0},
		{"ENDCASE", "End of CASE#(value)$", (*Context).compileEndCase, 0, 0},

		{"ASSERT(", "Start of assert zone", (*Context).zoneStart, zoneAssert, 0},
		{"DEBUG(", "Start of debug zone", (*Context).zoneStart, zoneDebug, 0},
		{")", "End of assert or debug zone#(flag)(code)$|$", (*Context).zoneEnd, 0, 0},

		{"THREAD", "Launch a new thread. Returns nthread or 0 on error#$(nthread)", (*Context).compileThread, opThread, dfDirective},
		{"THPRIO", "Launch a new thread with priority#(priority)$(nthread)", (*Context).compileThread, opThreadPrio, dfDirective},

		{"TO", "Set a value#(value)$", (*Context).to, 0, dfDirective},
		{"+TO", "Add to a value#(value)$", (*Context).to, 1, dfDirective},

		{"{", "Start of local variables definition", (*Context).localsStart, 0, 0},
		{"--", "Start of local variables comment", (*Context).localsComment, 0, 0},
		{"}", "End of local variables definition", (*Context).localsEnd, 0, 0},

		{"JMP", "Decompiled JMP#(raddr)$", (*Context).compileDecompiled, opJmp, 0},
		{"JZ", "Decompiled JZ#(raddr)$", (*Context).compileDecompiled, opJz, 0},
		{"JNZ", "Decompiled JNZ#(raddr)$", (*Context).compileDecompiled, opJnz, 0},
		{"_DO", "Decompiled _DO", (*Context).compileDecompiled, opDo, 0},
		{"P_DO", "Decompiled P_DO#(raddr)$", (*Context).compileDecompiled, opPlusDo, 0},
		{"N_DO", "Decompiled N_DO#(raddr)$", (*Context).compileDecompiled, opMinusDo, 0},
		{"_LOOP", "Decompiled _LOOP#(raddr)$", (*Context).compileDecompiled, opLoop, 0},
		{"_@LOOP", "Decompiled _@LOOP#(raddr)$", (*Context).compileDecompiled, opAtLoop, 0},
		{"_OF", "Decompiled _OF#(raddr)$", (*Context).compileDecompiled, opOf, 0},
		{"SETR", "Decompiled SETR#(index)$", (*Context).compileDecompiled, opSetR, 0},
		{"GETR", "Decompiled GETR#(index)$", (*Context).compileDecompiled, opGetR, 0},
		{"ADDR", "Decompiled ADDR#(index)$", (*Context).compileDecompiled, opAddR, 0},
	}
}

// search returns the index of the entry matching token, or -1. An entry
// also matches the token made of its non lowercase letters, so "TStop" is
// found as "TS".
func (d dictionary) search(token string) int {
	for i := range d {
		ent := &d[i]
		if ent.name == "" || ent.handler == nil {
			continue
		}
		if strings.EqualFold(ent.name, token) || aliasMatch(ent.name, token) {
			return i
		}
	}
	return -1
}

func aliasMatch(name, token string) bool {
	j := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'a' <= c && c <= 'z' {
			continue
		}
		if j >= len(token) || upper(token[j]) != c {
			return false
		}
		j++
	}
	return j == len(token)
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func (d dictionary) mustCode(name string) int {
	for i := range d {
		if d[i].name == name {
			return i
		}
	}
	panic(fmt.Sprintf("no %q entry", name))
}

// nameOf returns the name of the entry at code, for traces and listings.
func (d dictionary) nameOf(code int) string {
	if code >= 0 && code < len(d) && d[code].name != "" {
		return d[code].name
	}
	return fmt.Sprintf("<op %d>", code)
}

// encodeOp returns the byte encoding of base opcode code.
func encodeOp(code int) ([]byte, error) {
	switch {
	case code < ext1Base:
		return []byte{byte(code)}, nil
	case code < ext2Base:
		return []byte{opExt1, byte(code - ext1Base)}, nil
	case code < ext3Base:
		return []byte{opExt2, byte(code - ext2Base)}, nil
	case code < codeLimit:
		return []byte{opExt3, byte(code - ext3Base)}, nil
	}
	return nil, errExtOverflow
}
