// Ironfish Core Util - a thin command-line front end for the shielded
// transaction core: key generation, mnemonic encoding, and a local
// end-to-end transaction demo. Proving-parameter sourcing, consensus, and
// networking live outside this core and have no place here.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

const (
	version = "0.1.0"
	banner  = `
  _____                      __  _     _
 |_   _|   _ __   _ __      / _|(_)___| |__
   | || '__| '_ \ | '_ \    | |_ | / __| '_ \
   | || |  | | | || | | |   |  _|| \__ \ | | |
   |_||_|  |_| |_||_| |_|   |_|  |_|___/_| |_|

  ironfish-coreutil v%s
`
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version":
		fmt.Printf(banner, version)
	case "help":
		printUsage()
	case "genkey":
		err = cmdGenKey(args)
	case "address":
		err = cmdAddress(args)
	case "words":
		err = cmdWords(args)
	case "demo":
		err = cmdDemo(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: ironfish-coreutil <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  version          print the version banner")
	fmt.Println("  genkey           generate a fresh spending key and print its seed, address, and mnemonic")
	fmt.Println("  address --seed   print the public address for a hex-encoded 32-byte seed")
	fmt.Println("  words --seed     print the BIP-39 mnemonic for a hex-encoded 32-byte seed")
	fmt.Println("  demo             run the single-asset-transfer scenario against a local (insecure) circuit setup")
}

func parseSeedFlag(name string, args []string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	seed := fs.String("seed", "", "hex-encoded 32-byte seed")
	return fs, seed
}
