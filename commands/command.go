package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fzft/simple-redis/db"
	"github.com/fzft/simple-redis/resp"
)

// Command is one parsed request, ready to run against the store.
type Command interface {
	// Name is the lower-case verb.
	Name() string
	// Execute runs the command and returns its reply frame.
	Execute(store *db.Store) resp.Frame
}

// ErrInvalidCommand is matched by every *CommandError.
var ErrInvalidCommand = errors.New("invalid command")

// CommandError reports a frame that cannot be a command at all. The
// connection that sent it is closed.
type CommandError struct {
	Reason string
}

func (e *CommandError) Error() string {
	return "invalid command: " + e.Reason
}

func (e *CommandError) Unwrap() error {
	return ErrInvalidCommand
}

var (
	// Shared command responses

	SharedOk        = resp.SimpleString{Value: "OK"}
	SharedNull      = resp.Null{}
	SharedSyntaxErr = resp.Error{Message: "ERR syntax error"}
)

// redisCommand describes one verb of the command table. Arity follows the
// usual convention: a positive value is the exact argument count including
// the verb, a negative value -N means at least N.
type redisCommand struct {
	name  string
	arity int
	parse func(args []resp.Frame) Command
}

func (c *redisCommand) checkArity(argc int) bool {
	if c.arity > 0 {
		return argc == c.arity
	}
	return argc >= -c.arity
}

var commandTable = populateCommandTable()

func populateCommandTable() map[string]*redisCommand {
	table := make(map[string]*redisCommand)
	for _, c := range []*redisCommand{
		{name: "get", arity: 2, parse: parseGet},
		{name: "set", arity: -3, parse: parseSet},
	} {
		table[c.name] = c
	}
	return table
}

// lookupCommand finds a verb case-insensitively.
func lookupCommand(name string) (*redisCommand, bool) {
	c, ok := commandTable[strings.ToLower(name)]
	return c, ok
}

// Parse turns a decoded request frame into a command. Only an array whose
// first element is a bulk string is a request; anything else is a
// *CommandError. Verbs outside the command table parse to Unknown, and a
// known verb with bad arguments parses to a command replying with an error.
func Parse(f resp.Frame) (Command, error) {
	arr, ok := f.(resp.Array)
	if !ok {
		return nil, &CommandError{Reason: fmt.Sprintf("command must be an array, got %s", resp.TypeName(f))}
	}
	if len(arr.Elements) == 0 {
		return nil, &CommandError{Reason: "empty command"}
	}
	verb, ok := arr.Elements[0].(resp.BlobString)
	if !ok {
		return nil, &CommandError{Reason: fmt.Sprintf("command name must be a bulk string, got %s", resp.TypeName(arr.Elements[0]))}
	}

	cmd, ok := lookupCommand(verb.Value)
	if !ok {
		return Unknown{Verb: strings.ToLower(verb.Value)}, nil
	}
	if !cmd.checkArity(len(arr.Elements)) {
		return rejectf(cmd.name, "ERR wrong number of arguments for '%s' command", cmd.name), nil
	}
	return cmd.parse(arr.Elements[1:]), nil
}

// Unknown acknowledges a verb that is not implemented.
type Unknown struct {
	Verb string
}

func (u Unknown) Name() string { return u.Verb }

func (Unknown) Execute(*db.Store) resp.Frame {
	return SharedOk
}

// Rejected is a known verb whose arguments did not validate. It replies with
// its error and leaves the store alone.
type Rejected struct {
	Verb  string
	Reply resp.Error
}

func (r Rejected) Name() string { return r.Verb }

func (r Rejected) Execute(*db.Store) resp.Frame {
	return r.Reply
}

func rejectf(verb, format string, args ...any) Rejected {
	// Error replies are single lines.
	msg := strings.NewReplacer("\r", " ", "\n", " ").Replace(fmt.Sprintf(format, args...))
	return Rejected{Verb: verb, Reply: resp.Error{Message: msg}}
}
