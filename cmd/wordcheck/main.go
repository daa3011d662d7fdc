// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordcheck spell checking server and pipe mode.

wordcheck decides whether words are spelled correctly against a layered
dictionary (the main language dictionary, a personal word list and a
per-process session list) and ranks corrections for the ones that are not.
It can run as a MessagePack IPC server for editor integration, or speak the
ispell "-a" pipe protocol understood by most editors.

# Usage

Start the IPC server with default settings:

	wordcheck

Use a custom dictionary and personal word list, with debug logs:

	wordcheck -data /usr/share/dict -p ~/.wordcheck.pws -d

Run in pipe mode:

	echo "speling mistake" | wordcheck -a

Build binary chunk files from a frequency sorted word list:

	wordcheck -build words.txt -out data/en -chunk 10000

The data directory holds one dictionary per language: en.txt (one word per
line, optionally followed by a frequency), en.dic (hunspell), or chunked
binary files dict_0001.bin, dict_0002.bin ... in data/en/ or data/.

# Configuration

Runtime configuration is read from a TOML file, created with defaults if it
doesn't exist. Without a personal_path, personal words are kept in
<lang>.pws in the config directory:

	[speller]
	language = "en"
	dict_path = "data/"
	personal_path = ""
	repl_path = ""
	encoding = "utf-8"
	case_mode = "fallback"
	max_distance = 2
	phonetic = "metaphone"
	suggest_limit = 10

	[server]
	max_word_len = 64
	max_limit = 64
	autosave_every = 20

	[cli]
	default_limit = 10

Any speller option can be overridden with -o key=value, using the option
names listed by -keys:

	wordcheck -o case-mode=sensitive -o max-distance=1

# IPC Protocol

Requests and responses are MessagePack maps on stdin/stdout:

	{"id": "r1", "op": "suggest", "w": "speling", "l": 5}
	{"id": "r1", "ok": true, "s": [{"w": "spelling", "r": 1}], "c": 1, "t": 145}

See package server for the list of operations.

# Command Line Flags

	-version    Show current version
	-config     Path to a config.toml
	-data       Dictionary file or directory
	-lang       Dictionary language
	-p          Personal dictionary file
	-o          Speller option override key=value (repeatable)
	-keys       List speller options and exit
	-a          Run in ispell pipe mode
	-limit      Suggestions printed per word in pipe mode
	-d          Toggle debug mode
	-build      Word list to convert into binary chunks
	-out        Output directory for -build
	-chunk      Words per chunk for -build
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/wordcheck/internal/cli"
	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/server"
	"github.com/bastiangx/wordcheck/pkg/speller"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordcheck"
	gh      = "https://github.com/bastiangx/wordcheck"
)

// optionFlags collects repeated -o key=value flags.
type optionFlags struct {
	opts config.Options
}

func (f *optionFlags) String() string {
	pairs := make([]string, 0, len(f.opts))
	for k, v := range f.opts {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (f *optionFlags) Set(arg string) error {
	key, value, err := config.ParseOption(arg)
	if err != nil {
		return err
	}
	return f.opts.Set(key, value)
}

// sigHandler saves personal words and exits on SIGINT/SIGTERM.
func sigHandler(sp *speller.Speller) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		if sp.Dirty() {
			if err := sp.SaveAllWords(); err != nil {
				log.Errorf("Saving personal words: %v", err)
			}
		}
		os.Exit(0)
	}()
}

// main only manages the flow between config, speller and the chosen front end.
func main() {
	overrides := &optionFlags{opts: config.Options{}}

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config.toml")
	dataPath := flag.String("data", "", "Dictionary file or directory (overrides config)")
	language := flag.String("lang", "", "Dictionary language (overrides config)")
	personalPath := flag.String("p", "", "Personal dictionary file (overrides config)")
	flag.Var(overrides, "o", "Speller option override key=value, repeatable")
	listKeys := flag.Bool("keys", false, "List speller options and exit")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	pipeMode := flag.Bool("a", false, "Run in ispell pipe mode")
	limit := flag.Int("limit", -1, "Suggestions printed per word in pipe mode (default from config)")
	buildFrom := flag.String("build", "", "Word list to convert into binary chunks")
	buildOut := flag.String("out", "data/", "Output directory for -build")
	chunkSize := flag.Int("chunk", 10000, "Words per chunk for -build")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}
	if *listKeys {
		printKeys()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *buildFrom != "" {
		if err := buildChunks(*buildFrom, *buildOut, *chunkSize); err != nil {
			log.Fatalf("Failed to build chunks: %v", err)
		}
		return
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	for key, value := range map[string]string{"dict-path": *dataPath, "language": *language, "personal-path": *personalPath} {
		if value == "" {
			continue
		}
		if _, set := overrides.opts[key]; !set {
			overrides.opts[key] = value
		}
	}
	spellerConfig := appConfig.Speller
	if err := spellerConfig.Apply(overrides.opts); err != nil {
		log.Fatalf("Invalid option: %v", err)
	}
	if resolver, err := utils.NewPathResolver(); err == nil {
		if *debugMode {
			for k, v := range resolver.GetRuntimeInfo() {
				log.Debug("runtime", k, v)
			}
		}
		spellerConfig.DictPath = resolver.GetDataDir(spellerConfig.DictPath)
		if spellerConfig.PersonalPath == "" {
			if path, err := resolver.GetConfigPath(spellerConfig.Language + ".pws"); err == nil {
				spellerConfig.PersonalPath = path
			}
		}
	}
	log.Debugf("Speller config: %s", spellerConfig)

	sp, err := speller.New(spellerConfig)
	if err != nil {
		log.Fatalf("Failed to init speller: %v", err)
	}
	defer sp.Close()
	sigHandler(sp)

	if *pipeMode {
		log.SetReportTimestamp(false)
		pipeLimit := appConfig.CLI.DefaultLimit
		if *limit >= 0 {
			pipeLimit = *limit
		}
		cli.Version = Version
		inputHandler := cli.NewInputHandler(sp, pipeLimit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("Pipe mode error: %v", err)
		}
		if sp.Dirty() {
			if err := sp.SaveAllWords(); err != nil {
				log.Errorf("Saving personal words: %v", err)
			}
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(sp, appConfig.Server)
	showStartupInfo(spellerConfig, sp.Stats()["totalWords"])

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// buildChunks converts a word list into the binary chunk format. Words are
// ranked by frequency; words of equal frequency keep their list order.
func buildChunks(src, outDir string, chunkSize int) error {
	entries, err := dictionary.ReadEntries(src, "")
	if err != nil {
		return err
	}
	dictionary.SortByFrequency(entries)
	files, err := dictionary.WriteChunks(outDir, entries, chunkSize)
	if err != nil {
		return err
	}
	log.Infof("Wrote %d words into %d chunks in %s", len(entries), len(files), outDir)
	return nil
}

func printVersion() {
	l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ wordcheck ] Layered dictionary spell checking")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

func printKeys() {
	keyStyle := lipgloss.NewStyle().Bold(true).Width(16)
	for _, k := range config.Keys() {
		def := k.Default
		if def == "" {
			def = `""`
		}
		fmt.Printf("%s %-12s %s\n", keyStyle.Render(k.Name), def, k.Description)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(cfg config.SpellerConfig, words int) {
	l := logger.New(AppName)
	l.SetLevel(log.InfoLevel)
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("language: %s, words: %d", cfg.Language, words)
	if cfg.PersonalPath != "" {
		l.Infof("personal dict: ( %s )", cfg.PersonalPath)
	}
	l.Info("status: ready")
}
