// Emberdis - disassembler for stored and serialized bytecode programs
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/ember/pkg/bytecode"
	"github.com/chazu/ember/pkg/config"
	"github.com/chazu/ember/pkg/progstore"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	storePath := flag.String("store", "", "Program store path (default from ember.toml)")
	list := flag.Bool("list", false, "List content hashes of all stored programs")
	fromStore := flag.String("hash", "", "Disassemble the stored program with this content hash")
	verbosity := flag.Int("v", 0, "Log verbosity")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: emberdis [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Disassembles serialized bytecode programs, from files or from the program store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  emberdis prog.cbor            # Disassemble a serialized program file\n")
		fmt.Fprintf(os.Stderr, "  emberdis -list                # List programs in the store\n")
		fmt.Fprintf(os.Stderr, "  emberdis -hash 3fa1...        # Disassemble a stored program\n")
	}
	flag.Parse()

	cfg, err := config.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	commonlog.Configure(max(*verbosity, cfg.Log.Verbosity), nil)

	path := cfg.StorePath()
	if *storePath != "" {
		path = *storePath
	}

	if *list || *fromStore != "" {
		store, err := progstore.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if *list {
			if err := listPrograms(store); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
		if *fromStore != "" {
			if err := disassembleStored(store, *fromStore); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	for _, file := range flag.Args() {
		if err := disassembleFile(file); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func listPrograms(store *progstore.Store) error {
	hashes, err := store.Hashes()
	if err != nil {
		return err
	}
	for _, h := range hashes {
		p, err := store.Get(h)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", hex.EncodeToString(h[:]), p)
	}
	return nil
}

func disassembleStored(store *progstore.Store, key string) error {
	raw, err := hex.DecodeString(key)
	if err != nil || len(raw) != 32 {
		return fmt.Errorf("%q is not a valid content hash", key)
	}
	var hash [32]byte
	copy(hash[:], raw)

	p, err := store.Get(hash)
	if err != nil {
		return err
	}
	fmt.Print(bytecode.DisassembleProgram(p))
	return nil
}

func disassembleFile(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	p, err := bytecode.UnmarshalProgram(data)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	fmt.Printf("-- %s (%s)\n", file, hex.EncodeToString(hashPrefix(p)))
	fmt.Print(bytecode.DisassembleProgram(p))
	return nil
}

func hashPrefix(p *bytecode.Program) []byte {
	hash := p.ContentHash()
	return hash[:8]
}
