package command

import (
	"sort"

	"gitcord/internal/relay/repository"
)

// Registry is the static command table, enumerated at startup.
type Registry struct {
	commands map[string]Command
}

// NewRegistry builds the registry over the destination repository. All
// commands are known here; nothing is discovered at runtime.
func NewRegistry(repo repository.DestinationRepository) *Registry {
	r := &Registry{commands: make(map[string]Command)}
	for _, cmd := range []Command{
		registerCommand(repo),
		unregisterCommand(repo),
		listCommand(repo),
	} {
		r.commands[cmd.Name] = cmd
	}
	return r
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns all registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
