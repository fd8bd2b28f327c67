package commands

import (
	"github.com/fzft/simple-redis/db"
	"github.com/fzft/simple-redis/resp"
)

// Get replies with the frame stored at Key, or null.
type Get struct {
	Key string
}

func (Get) Name() string { return "get" }

func (cmd Get) Execute(store *db.Store) resp.Frame {
	if v, ok := store.Get(cmd.Key); ok {
		return v
	}
	return SharedNull
}

// Set stores Value, whatever its kind, at Key and replies OK.
type Set struct {
	Key   string
	Value resp.Frame
}

func (Set) Name() string { return "set" }

func (cmd Set) Execute(store *db.Store) resp.Frame {
	store.Set(cmd.Key, cmd.Value)
	return SharedOk
}

func parseGet(args []resp.Frame) Command {
	key, ok := args[0].(resp.BlobString)
	if !ok {
		return rejectf("get", "ERR invalid key for 'get' command, got %s", resp.TypeName(args[0]))
	}
	return Get{Key: key.Value}
}

// parseSet accepts SET key value. Options such as EX or NX are not
// supported and are a syntax error.
func parseSet(args []resp.Frame) Command {
	key, ok := args[0].(resp.BlobString)
	if !ok {
		return rejectf("set", "ERR invalid key for 'set' command, got %s", resp.TypeName(args[0]))
	}
	if len(args) > 2 {
		return Rejected{Verb: "set", Reply: SharedSyntaxErr}
	}
	return Set{Key: key.Value, Value: args[1]}
}
