// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/docopt/docopt-go"

	"github.com/oxygen-irc/oxygen/irc"
	"github.com/oxygen-irc/oxygen/irc/factoids"
	"github.com/oxygen-irc/oxygen/irc/logger"
)

// set via linker flags, either by make or by goreleaser:
var commit = ""  // git hash
var version = "" // tagged version

// implements the `oxygen factoids` command
func doListFactoids(config *irc.Config, logman *logger.Manager) {
	store, err := factoids.Open(config.Factoids, logman)
	if err != nil {
		log.Fatal("Could not open factoids: ", err.Error())
	}
	defer store.Close()

	for _, name := range store.Names() {
		text, _ := store.Get(name)
		fmt.Printf("%s %s\n", name, text)
	}
}

// implements the `oxygen importfactoids` command
func doImportFactoids(config *irc.Config, logman *logger.Manager, filename string, quiet bool) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatal("Could not open factoid file: ", err.Error())
	}
	imported, err := factoids.ParseText(file)
	file.Close()
	if err != nil {
		log.Fatal("Could not read factoid file: ", err.Error())
	}

	store, err := factoids.Open(config.Factoids, logman)
	if err != nil {
		log.Fatal("Could not open factoids: ", err.Error())
	}
	defer store.Close()

	if err := store.DefineAll(imported); err != nil {
		log.Fatal("Could not import factoids: ", err.Error())
	}
	if !quiet {
		log.Printf("imported %d factoids into %s\n", len(imported), config.Factoids.Path)
	}
}

func main() {
	irc.SetVersionString(version, commit)
	usage := `oxygen.
Usage:
	oxygen run [--conf <filename>] [--quiet] [--smoke]
	oxygen factoids [--conf <filename>]
	oxygen importfactoids <factoids.txt> [--conf <filename>] [--quiet]
	oxygen -h | --help
	oxygen --version
Options:
	--conf <filename>  Configuration file to use (YAML, or TOML if it ends in .toml) [default: oxygen.yaml].
	--quiet            Don't show startup/shutdown lines.
	--smoke            Load everything but don't connect.
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, irc.Ver)

	configfile := arguments["--conf"].(string)
	config, err := irc.LoadConfig(configfile)
	if err != nil {
		log.Fatal("Config file did not load successfully: ", err.Error())
	}

	logman, err := logger.NewManager(config.Logging)
	if err != nil {
		log.Fatal("Logger did not load successfully:", err.Error())
	}
	defer logman.Close()

	if arguments["factoids"].(bool) {
		doListFactoids(config, logman)
		return
	} else if arguments["importfactoids"].(bool) {
		doImportFactoids(config, logman, arguments["<factoids.txt>"].(string), arguments["--quiet"].(bool))
		return
	}

	if !arguments["--quiet"].(bool) {
		logman.Info("bot", fmt.Sprintf("%s starting", irc.Ver))
	}
	// warning if running a non-final version
	if strings.Contains(irc.Ver, "unreleased") {
		logman.Warning("bot", "You are running an unreleased version of oxygen")
	}

	store, err := factoids.Open(config.Factoids, logman)
	if err != nil {
		logman.Error("factoids", fmt.Sprintf("Could not open factoids: %s", err.Error()))
		logman.Close()
		os.Exit(1)
	}

	if arguments["--smoke"].(bool) {
		store.Close()
		return
	}

	bot := irc.NewBot(config, store, logman)
	err = bot.Run()
	store.Close()
	if err != nil {
		logman.Error("bot", fmt.Sprintf("Exiting: %s", err.Error()))
		logman.Close()
		os.Exit(1)
	}
}
