// Copyright 2024, cr4zyengineer

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/cr4zyengineer/la16/cpu"
	"github.com/cr4zyengineer/la16/emulator"
	"github.com/cr4zyengineer/la16/io"
	"github.com/cr4zyengineer/la16/translate"
)

// defines collects repeated -D NAME=VALUE flags.
type defines map[string]string

func (defs defines) String() string {
	var pairs []string
	for name, value := range defs {
		pairs = append(pairs, name+"="+value)
	}
	return strings.Join(pairs, ",")
}

func (defs defines) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("%v: expected NAME=VALUE", text)
	}
	defs[name] = value
	return nil
}

func assemble(mach *emulator.Machine, defs defines, sources []string, output string) {
	var text []string
	for _, source := range sources {
		data, err := os.ReadFile(source)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
		text = append(text, string(data))
	}

	asm := mach.Assembler()
	for name, value := range defs {
		asm.Predefine(name, value)
	}

	img, err := asm.Assemble(strings.Join(text, "\n"))
	if err != nil {
		log.Fatalf("%v: %v", strings.Join(sources, ","), err)
	}

	ouf, err := os.Create(output)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	_, err = img.WriteTo(ouf)
	if err == nil {
		err = ouf.Close()
	}
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}

func run(mach *emulator.Machine, image string, disassemble bool) {
	inf, err := os.Open(image)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}
	defer inf.Close()

	img, err := cpu.ReadImage(inf)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}

	if disassemble {
		err = img.Disassemble(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	err = mach.Load(img)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(mach.Cores) == 1 {
		err = mach.Run(0)
	} else {
		err = mach.RunAll(ctx)
	}

	if mach.Verbose {
		for _, core := range mach.Cores {
			log.Print(core)
		}
	}

	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}
}

func main() {
	var compile bool
	var image string
	var output string
	var cores int
	var disassemble bool
	var verbose bool
	defs := defines{}

	flag.BoolVar(&compile, "c", false, "Assemble the source files given as arguments")
	flag.StringVar(&image, "r", "", "Image file to run")
	flag.StringVar(&output, "o", "a.out", "Assembled image output")
	flag.IntVar(&cores, "n", 1, "Number of cores to run")
	flag.BoolVar(&disassemble, "d", false, "Disassemble the image, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(defs, "D", "Predefine a constant, as NAME=VALUE")

	flag.Parse()

	if compile == (len(image) != 0) {
		log.Fatalf("%v: exactly one of -c or -r is required", os.Args[0])
	}

	if !compile && flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if compile && flag.NArg() == 0 {
		log.Fatalf("%v: no source files", os.Args[0])
	}

	mach, err := emulator.NewMachine(cores, io.NewConsole())
	if err != nil {
		log.Fatalf("%v: -n %d: %v", os.Args[0], cores, err)
	}
	mach.Verbose = verbose

	if verbose {
		log.Printf("%v: messages in %v", os.Args[0], translate.Locale())
	}

	if compile {
		assemble(mach, defs, flag.Args(), output)
		return
	}

	run(mach, image, disassemble)
}
