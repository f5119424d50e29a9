package codegen

import "fmt"

// This file builds the fixed assembly header: the NASM format directives,
// the data section's scratch buffers and format strings, the `extern`
// block for every C runtime / Win32 symbol a wrapper might call, and the
// `dakshin_*` runtime wrapper functions themselves.
//
// The original generator (original_source/src/code_generator.py's
// add_stdlib_functions) typed every wrapper out by hand as a literal list
// of assembly lines, and the wrappers drifted slightly from each other as
// a result (some skip the shadow-space comment, "length" duplicates a
// stray "ret"). Here every wrapper is built from one descriptor table and
// one shared skeleton builder, skeleton(), so the push-rbp/shadow-space/call/pop-rbp
// skeleton is never typed out by eye twice.

const inputBufferSize = 4096

var externSymbols = []string{
	"printf", "scanf", "sscanf",
	"fopen", "fclose", "fread", "fwrite", "fgets", "fputs",
	"malloc", "free",
	"strlen", "strcmp", "strcpy", "strcat",
	"exit", "system", "_sleep", "getenv", "_putenv",
	"abs", "pow", "sqrt", "sin", "cos", "tan", "log", "exp", "rand", "srand",
	"MessageBoxA", "Beep", "OpenClipboard", "CloseClipboard",
	"GetClipboardData", "GlobalLock", "GlobalUnlock",
}

// wrapper describes one dakshin_<name> runtime routine. Body holds the
// instructions between the shadow-space reservation and its cleanup;
// skeleton() wraps it with the shared prologue/epilogue.
type wrapper struct {
	name string
	body []string
}

func (g *Generator) emitPrologue() {
	g.emitData(
		"; NASM 64-bit assembly for the Dakshin programming language (Windows)",
		"bits 64",
		"default rel",
		"",
		"section .data",
	)
	g.emitData(fmtf("    input_buffer times %d db 0", inputBufferSize))
	g.emitData(
		`    newline db 13, 10, 0`,
		`    space_string db ' ', 0`,
		`    null_terminator db 0`,
		`    file_mode_r db 'r', 0`,
		`    file_mode_w db 'w', 0`,
		`    file_mode_a db 'a', 0`,
		`    fmt_int db '%d', 0`,
		`    fmt_float db '%.2f', 0`,
		`    fmt_string db '%s', 0`,
		`    fmt_newline db '%d', 13, 10, 0`,
		`    input_fmt_int db '%d', 0`,
		`    input_fmt_float db '%f', 0`,
		`    input_fmt_string db '%s', 0`,
		`    alert_title db 'Alert', 0`,
		`    confirm_title db 'Confirm', 0`,
		`    error_title db 'Error', 0`,
	)

	g.emit("", "section .text", "    global main", "")
	for _, sym := range externSymbols {
		g.emit("    extern " + sym)
	}
	g.emit("")

	for _, w := range runtimeWrappers {
		g.emit(w.skeleton()...)
	}
}

// skeleton wraps a wrapper's body with the push-rbp/shadow-space/pop-rbp
// frame every dakshin_* routine shares (spec §4.6's Windows x64 sequence).
func (w wrapper) skeleton() []string {
	lines := []string{
		"dakshin_" + w.name + ":",
		"    push rbp",
		"    mov rbp, rsp",
		"    sub rsp, 32",
	}
	lines = append(lines, w.body...)
	lines = append(lines,
		"    add rsp, 32",
		"    mov rsp, rbp",
		"    pop rbp",
		"    ret",
		"",
	)
	return lines
}

// passthrough builds the common "forward every arg unchanged, call the C
// runtime function, the result is already in rax" body.
func passthrough(target string) []string {
	return []string{"    call " + target}
}

var runtimeWrappers = []wrapper{
	{"print", []string{
		"    mov rdx, rcx",
		"    mov rcx, fmt_string",
		"    xor rax, rax",
		"    call printf",
	}},
	{"print_int", []string{
		"    mov rdx, rcx",
		"    mov rcx, fmt_int",
		"    xor rax, rax",
		"    call printf",
	}},
	{"println", []string{
		"    mov rdx, rcx",
		"    mov rcx, fmt_string",
		"    xor rax, rax",
		"    call printf",
		"    mov rcx, newline",
		"    xor rax, rax",
		"    call printf",
	}},
	{"println_int", []string{
		"    mov rdx, rcx",
		"    mov rcx, fmt_int",
		"    xor rax, rax",
		"    call printf",
		"    mov rcx, newline",
		"    xor rax, rax",
		"    call printf",
	}},
	{"input", []string{
		"    test rcx, rcx",
		"    jz " + "skip_prompt_input",
		"    mov rdx, rcx",
		"    mov rcx, fmt_string",
		"    xor rax, rax",
		"    call printf",
		"skip_prompt_input:",
		"    mov rcx, input_fmt_string",
		"    mov rdx, input_buffer",
		"    xor rax, rax",
		"    call scanf",
		"    mov rax, input_buffer",
	}},
	{"printf", passthrough("printf")},
	{"scanf", passthrough("scanf")},
	{"open", passthrough("fopen")},
	{"close", passthrough("fclose")},
	{"read", []string{
		"    mov [rbp-8], rcx    ; file pointer",
		"    mov rcx, 4096",
		"    call malloc",
		"    mov [rbp-16], rax    ; buffer",
		"    mov rcx, rax",
		"    mov rdx, 1",
		"    mov r8, 4095",
		"    mov r9, [rbp-8]",
		"    call fread",
		"    mov rbx, [rbp-16]",
		"    mov byte [rbx+rax], 0",
		"    mov rax, [rbp-16]",
	}},
	{"write", []string{
		"    mov [rbp-8], rcx    ; file pointer",
		"    mov [rbp-16], rdx    ; data pointer",
		"    mov rcx, rdx",
		"    call strlen",
		"    mov r8, rax",
		"    mov rcx, [rbp-16]",
		"    mov rdx, 1",
		"    mov r9, [rbp-8]",
		"    call fwrite",
	}},
	{"readline", passthrough("fgets")},
	{"writeline", passthrough("fputs")},
	{"exists", simplified("file existence check")},
	{"delete", simplified("file deletion")},
	{"copy", simplified("file copy")},
	{"move", simplified("file move")},
	{"size", simplified("file size query")},
	{"strlen", passthrough("strlen")},
	{"length", passthrough("strlen")},
	{"strcmp", passthrough("strcmp")},
	{"strcpy", passthrough("strcpy")},
	{"strcat", passthrough("strcat")},
	{"malloc", passthrough("malloc")},
	{"free", passthrough("free")},
	{"exit", passthrough("exit")},
	{"system", passthrough("system")},
	{"abs", []string{
		"    mov rax, rcx",
		"    test rax, rax",
		"    jns abs_positive",
		"    neg rax",
		"abs_positive:",
	}},
	{"min", []string{
		"    cmp rcx, rdx",
		"    jle min_first",
		"    mov rax, rdx",
		"    jmp min_end",
		"min_first:",
		"    mov rax, rcx",
		"min_end:",
	}},
	{"max", []string{
		"    cmp rcx, rdx",
		"    jge max_first",
		"    mov rax, rdx",
		"    jmp max_end",
		"max_first:",
		"    mov rax, rcx",
		"max_end:",
	}},
	{"time", []string{
		"    mov rax, 1640995200",
	}},
	{"toint", []string{
		"    mov rdx, input_fmt_int",
		"    lea r8, [rbp-8]",
		"    call sscanf",
		"    mov rax, [rbp-8]",
	}},
	{"tofloat", []string{
		"    lea rdx, [rbp-8]",
		"    mov r8, input_fmt_float",
		"    call sscanf",
		"    movq rax, xmm0",
	}},
	{"msgbox", []string{
		"    mov r9, 0",
		"    mov r8, rdx",
		"    test r8, r8",
		"    jnz msgbox_with_title",
		"    mov r8, alert_title",
		"msgbox_with_title:",
		"    mov rdx, rcx",
		"    mov rcx, 0",
		"    call MessageBoxA",
	}},
	{"alert", []string{
		"    mov r9, 0",
		"    mov r8, alert_title",
		"    mov rdx, rcx",
		"    mov rcx, 0",
		"    call MessageBoxA",
	}},
	{"confirm", []string{
		"    mov r9, 4",
		"    mov r8, confirm_title",
		"    mov rdx, rcx",
		"    mov rcx, 0",
		"    call MessageBoxA",
		"    cmp rax, 6",
		"    sete al",
		"    movzx rax, al",
	}},
	{"beep", []string{
		"    test rcx, rcx",
		"    jnz beep_with_freq",
		"    mov rcx, 1000",
		"beep_with_freq:",
		"    test rdx, rdx",
		"    jnz beep_call",
		"    mov rdx, 500",
		"beep_call:",
		"    call Beep",
	}},
	{"getclipboard", []string{
		"    mov rcx, 0",
		"    call OpenClipboard",
		"    test rax, rax",
		"    jz getclipboard_error",
		"    mov rcx, 1",
		"    call GetClipboardData",
		"    mov rbx, rax",
		"    test rax, rax",
		"    jz getclipboard_close",
		"    mov rcx, rbx",
		"    call GlobalLock",
		"    mov rbx, rax",
		"getclipboard_close:",
		"    call CloseClipboard",
		"    mov rax, rbx",
		"    jmp getclipboard_end",
		"getclipboard_error:",
		"    mov rax, 0",
		"getclipboard_end:",
	}},

	{"pow", passthrough("pow")},
	{"sqrt", passthrough("sqrt")},
	{"sin", passthrough("sin")},
	{"cos", passthrough("cos")},
	{"tan", passthrough("tan")},
	{"log", passthrough("log")},
	{"exp", passthrough("exp")},
	{"random", passthrough("rand")},
	{"sleep", passthrough("_sleep")},
	{"getenv", passthrough("getenv")},
	{"setenv", passthrough("_putenv")},
	{"memcpy", passthrough("malloc")},
	{"memset", passthrough("malloc")},

	// The catalogue's remaining entries (string helpers with no single libc
	// call, collection ops, and the GUI dialog family beyond the ones the
	// original actually wired up) get a simplified stub body, the same
	// "not really implemented, just a comment and a default" treatment the
	// original gives break/continue/member-access — every dakshin_* symbol
	// a call site can reference still resolves to a defined routine.
	{"substr", simplified("substring extraction")},
	{"split", simplified("string split")},
	{"join", simplified("string join")},
	{"trim", simplified("string trim")},
	{"upper", simplified("uppercase conversion")},
	{"lower", simplified("lowercase conversion")},
	{"replace", simplified("string replace")},
	{"contains", simplified("substring search")},
	{"startswith", simplified("prefix check")},
	{"endswith", simplified("suffix check")},
	{"floor", simplified("floor")},
	{"ceil", simplified("ceil")},
	{"round", simplified("round")},
	{"randint", simplified("bounded random integer")},
	{"tostr", simplified("int-to-string conversion")},
	{"tobool", simplified("bool conversion")},
	{"typeof", simplified("runtime type query")},
	{"len", simplified("collection length")},
	{"empty", simplified("collection emptiness check")},
	{"clear", simplified("collection clear")},
	{"sort", simplified("collection sort")},
	{"reverse", simplified("collection reverse")},
	{"map", simplified("collection map")},
	{"filter", simplified("collection filter")},
	{"reduce", simplified("collection reduce")},
	{"messagebox", simplified("typed message box")},
	{"inputbox", simplified("input box dialog")},
	{"opendialog", simplified("open-file dialog")},
	{"savedialog", simplified("save-file dialog")},
	{"colordialog", simplified("color picker dialog")},
	{"fontdialog", simplified("font picker dialog")},
	{"folderdialog", simplified("folder picker dialog")},
	{"showwindow", simplified("window creation")},
	{"closewindow", simplified("window teardown")},
	{"setclipboard", simplified("clipboard write")},
	{"prompt", simplified("input prompt dialog")},
}

// simplified produces a wrapper body for a catalogue entry with no 1:1 C
// runtime or Win32 equivalent: a descriptive comment and a zeroed return,
// in place of an actual implementation.
func simplified(what string) []string {
	return []string{
		"    ; " + what + " - not implemented by this backend",
		"    mov rax, 0",
	}
}

func fmtf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
