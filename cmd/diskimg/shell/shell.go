// Package shell is the interactive command console for the diskimg
// CLI: a readline REPL over one mounted image at a time, grounded on
// paleotronic-diskm8's shell.go command-table dispatch (a
// map[string]*shellCommand keyed by verb, MinArgs/MaxArgs/NeedsMount
// validation in shellProcess, and a readline.NewEx loop in shellDo).
// Trimmed from DiskM8's eight-volume model to a single mount, since
// this library has no cross-disk comparison operations.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/paleotronic/diskimg"
	"github.com/paleotronic/diskimg/filesystem"
	"github.com/paleotronic/diskimg/protection"
)

var (
	mountedImage *diskimg.DiskImage
	mountedFS    filesystem.Filesystem
	mountedPath  string
)

type shellCommand struct {
	Name             string
	Description      string
	MinArgs, MaxArgs int
	Code             func(args []string) int
	NeedsMount       bool
	Text             []string
}

var commandList map[string]*shellCommand

func init() {
	commandList = map[string]*shellCommand{
		"mount": {
			Name:        "mount",
			Description: "Open and mount a disk image",
			MinArgs:     1,
			MaxArgs:     2,
			Code:        cmdMount,
			Text: []string{
				"mount <path> [variant]",
				"",
				"variant one of: auto, cpm-system, cpm-data, cpm-ibm, plus3, pcw, einstein, disciple, sam",
				"defaults to auto when omitted.",
			},
		},
		"umount": {
			Name:        "umount",
			Description: "Unmount the current image",
			MinArgs:     0,
			MaxArgs:     0,
			Code:        cmdUmount,
			NeedsMount:  true,
		},
		"info": {
			Name:        "info",
			Description: "Show geometry and filesystem summary for the mounted image",
			MinArgs:     0,
			MaxArgs:     0,
			Code:        cmdInfo,
			NeedsMount:  true,
		},
		"ls": {
			Name:        "ls",
			Description: "List directory entries on the mounted filesystem",
			MinArgs:     0,
			MaxArgs:     0,
			Code:        cmdLs,
			NeedsMount:  true,
		},
		"cat": {
			Name:        "cat",
			Description: "Dump a file's contents to stdout",
			MinArgs:     1,
			MaxArgs:     1,
			Code:        cmdCat,
			NeedsMount:  true,
		},
		"extract": {
			Name:        "extract",
			Description: "Write a file's contents out to a local path",
			MinArgs:     2,
			MaxArgs:     2,
			Code:        cmdExtract,
			NeedsMount:  true,
		},
		"detect": {
			Name:        "detect",
			Description: "Run the copy-protection catalogue against one side of the mounted image",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        cmdDetect,
			NeedsMount:  true,
		},
		"help": {
			Name:        "help",
			Description: "List commands, or show help for one command",
			MinArgs:     0,
			MaxArgs:     1,
			Code:        cmdHelp,
		},
		"exit": {
			Name:        "exit",
			Description: "Leave the shell",
			MinArgs:     0,
			MaxArgs:     0,
			Code:        func([]string) int { return 999 },
		},
		"quit": {
			Name:        "quit",
			Description: "Leave the shell",
			MinArgs:     0,
			MaxArgs:     0,
			Code:        func([]string) int { return 999 },
		},
	}
}

// smartSplit tokenizes a shell line, treating double-quoted and
// backslash-escaped spaces as literal.
func smartSplit(line string) (string, []string) {
	var out []string
	var inqq bool
	var lastEscape bool
	var chunk string

	add := func() {
		if chunk != "" {
			out = append(out, chunk)
			chunk = ""
		}
	}

	for _, ch := range line {
		switch {
		case ch == '"':
			inqq = !inqq
			add()
		case ch == ' ':
			if inqq || lastEscape {
				chunk += string(ch)
			} else {
				add()
			}
			lastEscape = false
		case ch == '\\' && !inqq:
			lastEscape = true
		default:
			chunk += string(ch)
		}
	}
	add()

	if len(out) == 0 {
		return "", out
	}
	return out[0], out[1:]
}

func getPrompt() string {
	if mountedImage == nil {
		return "diskimg> "
	}
	return fmt.Sprintf("diskimg:%s> ", filepath.Base(mountedPath))
}

func shellProcess(line string) int {
	line = strings.TrimSpace(line)
	verb, args := smartSplit(line)
	if verb == "" {
		return 0
	}

	verb = strings.ToLower(verb)
	command, ok := commandList[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "unrecognized command: %s\n", verb)
		return -1
	}

	if command.MinArgs != -1 && len(args) < command.MinArgs {
		fmt.Fprintf(os.Stderr, "%s expects at least %d argument(s)\n", verb, command.MinArgs)
		return -1
	}
	if command.MaxArgs != -1 && len(args) > command.MaxArgs {
		fmt.Fprintf(os.Stderr, "%s expects at most %d argument(s)\n", verb, command.MaxArgs)
		return -1
	}
	if command.NeedsMount && mountedImage == nil {
		fmt.Fprintf(os.Stderr, "%s only works on a mounted image\n", verb)
		return -1
	}

	return command.Code(args)
}

// Run starts the REPL. historyFile may be empty, in which case history
// is not persisted across sessions.
func Run(historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 getPrompt(),
		HistoryFile:            historyFile,
		DisableAutoSaveHistory: false,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}

		r := shellProcess(line)
		if r == 999 {
			return nil
		}

		rl.SetPrompt(getPrompt())
	}
}

func cmdMount(args []string) int {
	path := args[0]
	variant := filesystem.AutoDetect
	if len(args) == 2 {
		v, ok := filesystem.ParseVariant(args[1])
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown variant %q\n", args[1])
			return -1
		}
		variant = v
	}

	img, err := diskimg.OpenPath(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mount: %v\n", err)
		return -1
	}

	fs, err := diskimg.Mount(img, variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mount: %v\n", err)
		return -1
	}

	mountedImage = img
	mountedFS = fs
	mountedPath = path
	fmt.Printf("mounted %s (%s, %d sides)\n", path, img.Format, len(img.Disks))
	return 0
}

func cmdUmount(args []string) int {
	mountedImage = nil
	mountedFS = nil
	mountedPath = ""
	return 0
}

func cmdInfo(args []string) int {
	info, err := mountedFS.Info()
	if err != nil {
		fmt.Fprintf(os.Stderr, "info: %v\n", err)
		return -1
	}
	fmt.Printf("file:          %s\n", mountedPath)
	fmt.Printf("container:     %s\n", mountedImage.Format)
	fmt.Printf("sides:         %d\n", len(mountedImage.Disks))
	fmt.Printf("capacity:      %d KB\n", mountedImage.TotalCapacityKB())
	fmt.Printf("filesystem:    %s\n", info.FSType)
	fmt.Printf("block size:    %d\n", info.BlockSize)
	fmt.Printf("total blocks:  %d\n", info.TotalBlocks)
	fmt.Printf("free blocks:   %d\n", info.FreeBlocks)
	fmt.Printf("reserved trk:  %d\n", info.ReservedTracks)
	return 0
}

func cmdLs(args []string) int {
	entries, err := mountedFS.ReadDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ls: %v\n", err)
		return -1
	}
	for _, e := range entries {
		attrs := ""
		if e.Attributes.ReadOnly {
			attrs += "R"
		}
		if e.Attributes.System {
			attrs += "S"
		}
		if e.Attributes.Archive {
			attrs += "A"
		}
		fmt.Printf("%-12s %8d  %-4s %s\n", e.Name, e.Size, attrs, e.LocationHint)
	}
	return 0
}

func cmdCat(args []string) int {
	data, err := mountedFS.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "cat: %v\n", err)
		return -1
	}
	os.Stdout.Write(data)
	return 0
}

func cmdExtract(args []string) int {
	data, err := mountedFS.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		return -1
	}
	if err := os.WriteFile(args[1], data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		return -1
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), args[1])
	return 0
}

func cmdDetect(args []string) int {
	side := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "detect: side must be a number\n")
			return -1
		}
		side = n
	}

	d, err := mountedImage.Disk(side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "detect: %v\n", err)
		return -1
	}

	result := protection.Detect(d)
	if result == nil {
		fmt.Println("no known protection scheme matched")
		return 0
	}
	fmt.Printf("%s (confidence %.2f): %s\n", result.Name, result.Confidence, result.Reason)
	return 0
}

func cmdHelp(args []string) int {
	if len(args) == 1 {
		c, ok := commandList[strings.ToLower(args[0])]
		if !ok {
			fmt.Fprintf(os.Stderr, "no such command: %s\n", args[0])
			return -1
		}
		for _, line := range c.Text {
			fmt.Println(line)
		}
		if len(c.Text) == 0 {
			fmt.Println(c.Description)
		}
		return 0
	}

	for _, name := range []string{"mount", "umount", "info", "ls", "cat", "extract", "detect", "help", "exit", "quit"} {
		c := commandList[name]
		fmt.Printf("%-10s %s\n", c.Name, c.Description)
	}
	return 0
}
