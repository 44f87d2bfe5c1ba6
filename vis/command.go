// Package vis provides the serial-vis command set on top of the frame encoder
package vis

import (
	"errors"
	"fmt"
	"sync"

	"serialvis/protocol"
)

var (
	ErrUnknownCommand  = errors.New("vis: unknown command")
	ErrCommandConflict = errors.New("vis: command already registered with a different format")
)

// Command is a named opcode and the descriptor its arguments follow
type Command struct {
	ID         uint16
	Name       string
	Format     string // Descriptor text (e.g., "[ff]fs")
	Descriptor protocol.Descriptor
}

// builtinCommands lists the commands every serial-vis host understands,
// in dictionary order
var builtinCommands = []struct {
	name   string
	format string
}{
	// control
	{"draw", ""},
	{"trigger", ""},
	{"null", ""},
	{"logs", "ss"},
	{"logf", "sF"},
	{"logstart", ""},
	{"logend", ""},
	{"echo", "s"},

	// drawing
	{"definecolor", "s[ddd]"},
	{"setscale", "f"},
	{"setoffset", "[dd]"},
	{"drawline", "[ff][ff]s"},
	{"drawlinep", "[dd][dd]s"},
	{"drawcircle", "[ff]fs"},
	{"drawray", "[ff]ffs"},
	{"text", "s[ff]ds"},
	{"textp", "s[dd]ds"},
}

// Registry holds the commands a client may send
type Registry struct {
	mu         sync.RWMutex
	commands   map[uint16]*Command
	nameToID   map[string]uint16
	nextID     uint16
	dictionary string // One "name format" line per command
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[uint16]*Command),
		nameToID: make(map[string]uint16),
		nextID:   0,
	}
}

// DefaultRegistry creates a registry holding the built-in serial-vis commands
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range builtinCommands {
		r.MustRegister(c.name, c.format)
	}
	return r
}

// Register adds a command to the registry.
// Registering the same name and format again returns the existing ID.
func (r *Registry) Register(name string, format string) (uint16, error) {
	if err := protocol.CheckOpcode(name); err != nil {
		return 0, err
	}
	d, err := protocol.ParseDescriptor(format)
	if err != nil {
		return 0, fmt.Errorf("command %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if already registered
	if id, exists := r.nameToID[name]; exists {
		if r.commands[id].Format != format {
			return 0, fmt.Errorf("%w: %s %q (have %q)", ErrCommandConflict, name, format, r.commands[id].Format)
		}
		return id, nil
	}

	id := r.nextID
	r.nextID++

	r.commands[id] = &Command{
		ID:         id,
		Name:       name,
		Format:     format,
		Descriptor: d,
	}
	r.nameToID[name] = id

	r.rebuildDictionary()

	return id, nil
}

// MustRegister is Register for commands known at compile time
func (r *Registry) MustRegister(name string, format string) uint16 {
	id, err := r.Register(name, format)
	if err != nil {
		panic(err)
	}
	return id
}

// GetCommand retrieves a command by ID
func (r *Registry) GetCommand(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// Lookup retrieves a command by name
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.commands[id], true
}

// Count returns the number of registered commands
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Names returns command names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for i := uint16(0); i < r.nextID; i++ {
		if cmd, ok := r.commands[i]; ok {
			names = append(names, cmd.Name)
		}
	}
	return names
}

// GetDictionary returns the command dictionary string
func (r *Registry) GetDictionary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dictionary
}

// rebuildDictionary rebuilds the dictionary string
// Must be called with lock held
func (r *Registry) rebuildDictionary() {
	dict := ""
	for i := uint16(0); i < r.nextID; i++ {
		if cmd, ok := r.commands[i]; ok {
			if cmd.Format != "" {
				dict += cmd.Name + " " + cmd.Format + "\n"
			} else {
				dict += cmd.Name + "\n"
			}
		}
	}
	r.dictionary = dict
}
