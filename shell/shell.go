// Package shell implements munix's thin in-kernel interactive shell,
// ported from original_source/src/kernel/kshell.c.
// It is explicitly a consumer of the VFS, not part of the hard core:
// program loading stays a stub, so a name not matching a built-in is
// looked up under /sbin and /bin and, if found there, reported as not
// loadable rather than loaded and run; otherwise it is reported as an
// unknown command.
package shell

import (
	"fmt"
	"strings"

	"github.com/UIT-INF-2203/munix-2026/drivers/tty"
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/kernel"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

const prefix = "kshell: "

var binPaths = []string{"/sbin", "/bin"}

// Shell holds the state of one shell session: its kernel context, its
// I/O files (all the same TTY handle in the ordinary boot flow, kept
// separate the way kshell.c keeps in/out/err distinct), and the
// current working directory.
type Shell struct {
	ctx *kernel.Context
	in  *vfs.File
	out *vfs.File
	err *vfs.File
	cwd string

	waitingForInput bool
}

// New builds a shell session reading and writing through f.
func New(ctx *kernel.Context, f *vfs.File) *Shell {
	return &Shell{ctx: ctx, in: f, out: f, err: f, cwd: "/"}
}

func ftypeMarker(t vfs.DirType) string {
	switch t {
	case vfs.Chr:
		return "*"
	case vfs.Dir:
		return "/"
	case vfs.Reg:
		return ""
	default:
		return "?"
	}
}

var builtins = map[string]func(*Shell, []string) kerrno.Status{
	"help":      (*Shell).cmdHelp,
	"inputtest": (*Shell).cmdInputtest,
	"mount":     (*Shell).cmdMount,
	"pwd":       (*Shell).cmdPwd,
	"ls":        (*Shell).cmdLs,
	"stat":      (*Shell).cmdStat,
	"xhead":     (*Shell).cmdXhead,
	"reset":     (*Shell).cmdReset,
}

// builtinNames lists command names in a fixed, deterministic order
// for help text and "unknown command" listings.
var builtinNames = []string{"help", "inputtest", "mount", "pwd", "ls", "stat", "xhead", "reset"}

func (sh *Shell) printCmds(f *vfs.File) {
	fmt.Fprintf(lineWriter{f}, prefix+"built-in commands: %s\n", strings.Join(builtinNames, ", "))
}

// lineWriter adapts a *vfs.File to io.Writer so fmt.Fprintf can
// target it directly, the Go-idiomatic replacement for kshell.c's
// file_printf retry-on-truncation dance (see vfs.Printf).
type lineWriter struct{ f *vfs.File }

func (w lineWriter) Write(p []byte) (int, error) {
	n, res := w.f.Write(p)
	if !res.Ok() {
		return n, res
	}
	return n, nil
}

func (sh *Shell) cmdHelp(args []string) kerrno.Status {
	sh.printCmds(sh.out)
	return kerrno.OK
}

func (sh *Shell) cmdPwd(args []string) kerrno.Status {
	fmt.Fprintf(lineWriter{sh.out}, "%s\n", sh.cwd)
	return kerrno.OK
}

func (sh *Shell) cmdMount(args []string) kerrno.Status {
	for _, line := range sh.ctx.Mounts.DescribeAll() {
		fmt.Fprintf(lineWriter{sh.out}, "%s\n", line)
	}
	return kerrno.OK
}

func (sh *Shell) cmdLs(args []string) kerrno.Status {
	dirpath := ""
	if len(args) >= 2 {
		dirpath = args[1]
	}

	dir, res := sh.ctx.Mounts.OpenPath(sh.cwd, dirpath)
	if !res.Ok() {
		return res
	}
	defer dir.Close()

	var d vfs.Dirent
	for {
		n, res := dir.Readdir(&d)
		if !res.Ok() {
			return res
		}
		if n == 0 {
			break
		}
		fmt.Fprintf(lineWriter{sh.out}, "%s%s\n", d.Name, ftypeMarker(d.Type))
	}
	return kerrno.OK
}

func (sh *Shell) cmdStat(args []string) kerrno.Status {
	if len(args) < 2 {
		fmt.Fprintf(lineWriter{sh.err}, "usage: %s FILE\n", args[0])
		return kerrno.EINVAL
	}
	st, res := sh.ctx.Mounts.Stat(sh.cwd, args[1])
	if !res.Ok() {
		fmt.Fprintf(lineWriter{sh.err}, prefix+"[%s] stat: file not found\n", res)
		return res
	}
	fmt.Fprintf(lineWriter{sh.out}, "  File: %s\n", args[1])
	fmt.Fprintf(lineWriter{sh.out}, "  Size: %d\n", st.Size)
	fmt.Fprintf(lineWriter{sh.out}, " Inode: %d\n", st.Ino)
	return kerrno.OK
}

func (sh *Shell) cmdXhead(args []string) kerrno.Status {
	if len(args) < 2 {
		fmt.Fprintf(lineWriter{sh.err}, "usage: %s FILE\n", args[0])
		return kerrno.EINVAL
	}
	f, res := sh.ctx.Mounts.OpenPath(sh.cwd, args[1])
	if !res.Ok() {
		return res
	}
	defer f.Close()

	const rowBytes = 16
	const rows = 10
	off := int64(0)
	for i := 0; i < rows; i++ {
		row := make([]byte, rowBytes)
		n, res := f.Read(row)
		if !res.Ok() {
			return res
		}
		if n == 0 {
			break
		}

		fmt.Fprintf(lineWriter{sh.out}, "%08x:", off)
		off += int64(n)

		for j := 0; j < rowBytes; j++ {
			if j%2 == 0 {
				fmt.Fprint(lineWriter{sh.out}, " ")
			}
			if j < n {
				fmt.Fprintf(lineWriter{sh.out}, "%02x", row[j])
			} else {
				fmt.Fprint(lineWriter{sh.out}, "  ")
			}
		}
		fmt.Fprint(lineWriter{sh.out}, "  ")

		for j := 0; j < rowBytes; j++ {
			c := byte('.')
			if j < n && row[j] >= 0x20 && row[j] < 0x7f {
				c = row[j]
			}
			fmt.Fprintf(lineWriter{sh.out}, "%c", c)
		}
		fmt.Fprint(lineWriter{sh.out}, "\n")
	}
	return kerrno.OK
}

const resetEscapeGrey = "\033[38;5;7m"
const resetEscapeClear = "\033[2J"

func (sh *Shell) cmdReset(args []string) kerrno.Status {
	fmt.Fprint(lineWriter{sh.out}, resetEscapeGrey)
	fmt.Fprint(lineWriter{sh.out}, resetEscapeClear)
	return kerrno.OK
}

func (sh *Shell) cmdInputtest(args []string) kerrno.Status {
	var saved uint
	if res := sh.in.Ioctl(tty.GetFlags, &saved); !res.Ok() {
		return res
	}
	testFlags := (saved &^ uint(tty.COOKED)) | tty.ECHO | tty.ECHOCTL
	if res := sh.in.Ioctl(tty.SetFlags, testFlags); !res.Ok() {
		return res
	}

	fmt.Fprintf(lineWriter{sh.out}, "Reading from %s. Press CTRL-D to stop.\n", sh.in.DebugStr())

	one := make([]byte, 1)
	for {
		n, res := sh.in.Read(one)
		if res == kerrno.EAGAIN {
			continue
		}
		if !res.Ok() {
			break
		}
		if n == 0 || one[0] == 0x04 {
			break
		}
	}
	fmt.Fprint(lineWriter{sh.out}, "\n")

	return sh.in.Ioctl(tty.SetFlags, saved)
}

// breakCmdline destructively-in-spirit tokenizes a command line on
// whitespace, mirroring sh_break_cmdline's split-on-space semantics
// (Go strings are immutable, so there is nothing to actually mutate
// in place; strings.Fields gives the same argv).
func breakCmdline(line string) []string {
	return strings.Fields(line)
}

// readExec reads and executes one command line. Returns EAGAIN to
// mean "keep looping" (no input yet, blank line, or a built-in ran),
// OK with no further meaning on end-of-file, any other Status on a
// line-read failure the caller should give up on.
func (sh *Shell) readExec() kerrno.Status {
	if !sh.waitingForInput {
		fmt.Fprint(lineWriter{sh.out}, "> ")
		sh.waitingForInput = true
	}

	line := make([]byte, 256)
	n, res := sh.in.ReadStr(line)
	if res == kerrno.EAGAIN {
		return res
	}
	if !res.Ok() {
		return res
	}
	if n == 0 {
		return kerrno.OK
	}
	sh.waitingForInput = false

	args := breakCmdline(string(line[:n]))
	if len(args) == 0 {
		return kerrno.EAGAIN
	}

	if cmd, ok := builtins[args[0]]; ok {
		if res := cmd(sh, args); !res.Ok() {
			fmt.Fprintf(lineWriter{sh.err}, prefix+"%s exited with code %s\n", args[0], res)
		}
		return kerrno.EAGAIN
	}

	if binDir := sh.searchBin(args[0]); binDir != "" {
		fmt.Fprintf(lineWriter{sh.err}, prefix+"%s: program loading not supported\n", args[0])
		return kerrno.EAGAIN
	}

	fmt.Fprintf(lineWriter{sh.err}, prefix+"unknown command or program: %s\n", args[0])
	sh.printCmds(sh.err)
	return kerrno.EAGAIN
}

func (sh *Shell) searchBin(name string) string {
	for _, dir := range binPaths {
		st, res := sh.ctx.Mounts.Stat(dir, name)
		if res == kerrno.ENOENT {
			continue
		}
		if !res.Ok() {
			fmt.Fprintf(lineWriter{sh.err}, prefix+"error looking for %s/%s: %s\n", dir, name, res)
			return ""
		}
		if st.Type == vfs.Reg {
			return dir
		}
	}
	return ""
}

// Run sets the TTY to ECHO|COOKED, prints a banner, and loops reading
// and executing command lines until the input file returns (0, OK).
func Run(ctx *kernel.Context, f *vfs.File) kerrno.Status {
	sh := New(ctx, f)

	fmt.Fprintf(lineWriter{sh.out}, "munix kshell %s\n", sh.in.DebugStr())
	if res := sh.in.Ioctl(tty.SetFlags, uint(tty.ECHO|tty.COOKED)); !res.Ok() {
		return res
	}

	for {
		res := sh.readExec()
		if res == kerrno.EAGAIN {
			continue
		}
		return res
	}
}
