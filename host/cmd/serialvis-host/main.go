package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"serialvis/host/device"
	"serialvis/host/serial"
	"serialvis/logging"
	"serialvis/vis"
)

var errQuit = errors.New("quit")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serialvis-host", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "TOML config file")
		devicePath = fs.String("device", "/dev/ttyACM0", "Serial device path")
		baud       = fs.Int("baud", serial.DefaultBaud, "Baud rate")
		dryRun     = fs.Bool("dry-run", false, "Write frames to stdout instead of a serial port")
		verbose    = fs.Bool("verbose", false, "Enable verbose output")
		demo       = fs.Int("demo", 0, "Send N frames of the growing-circle demo and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := defaultHostConfig()
	if *configPath != "" {
		loaded, err := loadHostConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// Explicit flags win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Serial.Device = *devicePath
		case "baud":
			cfg.Serial.Baud = *baud
		case "dry-run":
			cfg.DryRun = *dryRun
		}
	})

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	logCfg.Out = stderr
	if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
		logCfg.Level = lvl
	}
	logging.ApplyEnvOverrides(&logCfg)
	if *verbose {
		logCfg.Level = zerolog.DebugLevel
	}
	logger := logging.New("serialvis-host", logCfg)

	dev := device.New(
		device.WithLogger(logger),
		device.WithSendAttempts(cfg.SendAttempts),
	)

	if cfg.DryRun {
		dev.Attach(serial.NewWriterPort(stdout))
		logger.Debug().Msg("dry run: frames go to stdout")
	} else if err := dev.ConnectWithConfig(&cfg.Serial); err != nil {
		fmt.Fprintf(stderr, "Error: Failed to connect: %v\n", err)
		return 1
	}
	defer dev.Close()

	client := vis.NewClient(dev)

	if *demo > 0 {
		if err := runDemo(client, *demo, 10*time.Millisecond); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	sess := &session{client: client, dev: dev, out: stderr}

	fmt.Fprintln(stderr, "Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stderr, "> ")
		if !scanner.Scan() {
			break
		}
		if err := sess.handleLine(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return 0
			}
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
		return 1
	}
	return 0
}

// session interprets console lines
type session struct {
	client *vis.Client
	dev    *device.Device
	out    io.Writer
}

func (s *session) handleLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	words, err := vis.SplitLine(line)
	if err != nil {
		return fmt.Errorf("parse line: %w", err)
	}
	if len(words) == 0 {
		return nil
	}

	switch words[0] {
	case "quit", "exit", "q":
		return errQuit

	case "help", "?":
		s.printHelp()
		return nil

	case "dict":
		fmt.Fprint(s.out, s.client.Registry().GetDictionary())
		return nil

	case "stats":
		sent, failed := s.dev.Stats()
		fmt.Fprintf(s.out, "sent %d, failed %d\n", sent, failed)
		return nil

	case "define":
		// define <name> <format>
		if len(words) != 2 && len(words) != 3 {
			return fmt.Errorf("usage: define <name> [format]")
		}
		format := ""
		if len(words) == 3 {
			format = words[2]
		}
		_, err := s.client.Registry().Register(words[1], format)
		return err
	}

	cmd, ok := s.client.Registry().Lookup(words[0])
	if !ok {
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", words[0])
	}

	values, err := vis.ParseArgs(cmd.Descriptor, words[1:])
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return s.client.Command(cmd.Name, values...)
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, "\nAvailable commands:")
	fmt.Fprintln(s.out, "  help                   - Show this help message")
	fmt.Fprintln(s.out, "  dict                   - Print the command dictionary")
	fmt.Fprintln(s.out, "  stats                  - Print frame counters")
	fmt.Fprintln(s.out, "  define <name> [format] - Register a custom command")
	fmt.Fprintln(s.out, "  <command> [args...]    - Send a dictionary command, e.g. drawcircle 0 0 10 red")
	fmt.Fprintln(s.out, "  quit/exit/q            - Exit the program")
	fmt.Fprintln(s.out)
}

// runDemo draws a circle that grows to radius 200 and restarts
func runDemo(client *vis.Client, frames int, delay time.Duration) error {
	if err := client.SetOffset(400, 300); err != nil {
		return err
	}
	if err := client.SetScale(2); err != nil {
		return err
	}
	if err := client.DefineColor("red", 255, 0, 0); err != nil {
		return err
	}

	var counter float32
	for i := 0; i < frames; i++ {
		if err := client.DrawCircle(0, 0, counter, "red"); err != nil {
			return err
		}
		if err := client.Draw(); err != nil {
			return err
		}

		counter++
		if counter >= 200 {
			counter = 0
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil
}
