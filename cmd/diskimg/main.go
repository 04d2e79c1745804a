// diskimg is the command-line driver for the library: open/mount/detect
// a disk image from a single flag-driven invocation, or drop into the
// interactive shell (package cmd/diskimg/shell). Grounded on
// paleotronic-diskm8's main.go: package-scope flag vars plus a
// sequential if-flag dispatch chain in main(), trimmed to this
// library's actual operations.
package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/paleotronic/diskimg"
	"github.com/paleotronic/diskimg/builder"
	"github.com/paleotronic/diskimg/cmd/diskimg/shell"
	"github.com/paleotronic/diskimg/filesystem"
	"github.com/paleotronic/diskimg/loggy"
	"github.com/paleotronic/diskimg/presets"
	"github.com/paleotronic/diskimg/protection"
)

func binpath() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE") + "/diskimg"
	}
	return os.Getenv("HOME") + "/.diskimg"
}

func init() {
	loggy.LogFolder = binpath() + "/logs/"
}

func usage() {
	fmt.Printf(`%s <options> [image]

Reads and writes Standard/Extended DSK and MGT disk images, mounts
CP/M or MGT filesystems on them, and runs the copy-protection catalogue.

`, path.Base(os.Args[0]))
	flag.PrintDefaults()
}

var (
	mountFlag   = flag.String("mount", "", "Mount a filesystem variant and list it (auto, cpm-system, cpm-data, cpm-ibm, plus3, pcw, einstein, disciple, sam)")
	infoFlag    = flag.Bool("info", false, "Print container and geometry summary")
	detectFlag  = flag.Bool("detect", false, "Run the copy-protection catalogue against the side chosen by -side")
	sideFlag    = flag.Int("side", 0, "Disk side to use with -detect")
	catFlag     = flag.String("cat", "", "Print one file's contents from the mounted filesystem (requires -mount)")
	shellFlag   = flag.Bool("shell", false, "Start the interactive shell")
	listPresets = flag.Bool("list-presets", false, "List the named format presets and exit")
	buildPreset = flag.String("build", "", "Build a blank image from a named preset (see -list-presets)")
	outFlag     = flag.String("out", "", "Output path for -build")
	verboseFlag = flag.Bool("verbose", false, "Echo log lines to stderr")
)

func main() {
	flag.Usage = usage
	flag.Parse()
	loggy.ECHO = *verboseFlag

	if *listPresets {
		for _, p := range presets.All() {
			s := presets.Spec(p)
			fmt.Printf("%-20s sides=%d tracks=%d spt=%d size=%d\n", p, s.Sides, s.Tracks, s.SectorsPerTrack, s.SectorSize)
		}
		os.Exit(0)
	}

	if *buildPreset != "" {
		runBuild(*buildPreset, *outFlag)
		os.Exit(0)
	}

	if *shellFlag {
		if err := shell.Run(binpath() + "/.shell_history"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	imagePath := args[0]

	img, err := diskimg.OpenPath(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening %s: %v\n", imagePath, err)
		os.Exit(2)
	}

	if *infoFlag {
		fmt.Printf("file:      %s\n", filepath.Base(imagePath))
		fmt.Printf("container: %s\n", img.Format)
		fmt.Printf("sides:     %d\n", len(img.Disks))
		fmt.Printf("capacity:  %d KB\n", img.TotalCapacityKB())
	}

	if *detectFlag {
		runDetect(img, *sideFlag)
	}

	if *mountFlag != "" {
		runMount(img, *mountFlag, *catFlag)
	}
}

func runBuild(presetName, outPath string) {
	if outPath == "" {
		fmt.Fprintln(os.Stderr, "-build requires -out")
		os.Exit(1)
	}

	var match presets.Name
	found := false
	for _, p := range presets.All() {
		if strings.EqualFold(p.String(), presetName) {
			match = p
			found = true
			break
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "unknown preset %q; see -list-presets\n", presetName)
		os.Exit(1)
	}

	img, err := builder.FromPreset(match).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(2)
	}
	if err := diskimg.SavePath(img, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s (%s)\n", outPath, match)
}

func runDetect(img *diskimg.DiskImage, side int) {
	d, err := img.Disk(side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "detect: %v\n", err)
		os.Exit(2)
	}
	result := protection.Detect(d)
	if result == nil {
		fmt.Println("no known protection scheme matched")
		return
	}
	fmt.Printf("%s (confidence %.2f): %s\n", result.Name, result.Confidence, result.Reason)
}

func runMount(img *diskimg.DiskImage, variantName, catName string) {
	variant, ok := filesystem.ParseVariant(variantName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown variant %q\n", variantName)
		os.Exit(1)
	}

	fs, err := diskimg.Mount(img, variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mount: %v\n", err)
		os.Exit(2)
	}

	if catName != "" {
		data, err := fs.ReadFile(catName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cat: %v\n", err)
			os.Exit(2)
		}
		os.Stdout.Write(data)
		return
	}

	entries, err := fs.ReadDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mount: %v\n", err)
		os.Exit(2)
	}
	for _, e := range entries {
		fmt.Printf("%-12s %8d  %s\n", e.Name, e.Size, e.LocationHint)
	}
}
