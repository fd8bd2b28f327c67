package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fzft/simple-redis/deps/hredis"
	"github.com/fzft/simple-redis/deps/linenoise"
	"github.com/fzft/simple-redis/resp"
	"github.com/mattn/go-isatty"
)

var (
	RedisVersion = "255.255.255"

	RedisCliDefaultHost    = "127.0.0.1"
	RedisCliDefaultPort    = 8088
	RedisCliHisFileEnv     = "REDISCLI_HISTFILE"
	RedisCliHisFileDefault = ".rediscli_history"
	RedisCliRequestTimeout = 30 * time.Second
)

// ErrUsage is returned by ParseArgs for a malformed command line.
var ErrUsage = errors.New("usage error")

type OutputMode uint8

const (
	OutputStandard OutputMode = iota
	OutputRaw
)

type CliConnInfo struct {
	hostIp   string
	hostPort int
}

type RedisCliCfg struct {
	connInfo *CliConnInfo
	output   OutputMode
	prompt   string
	// argv is the command given on the command line, if any.
	argv []string
}

type RedisCli struct {
	config  *RedisCliCfg
	context *hredis.RedisContext

	gitSHA1  string
	gitDirty string
	out      io.Writer
	errOut   io.Writer
}

// NewRedisCli returns a client with default settings. Output is raw unless
// stdout is a terminal.
func NewRedisCli(gitSHA1, gitDirty string) *RedisCli {
	output := OutputRaw
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		output = OutputStandard
	}
	cli := &RedisCli{
		config: &RedisCliCfg{
			connInfo: &CliConnInfo{hostIp: RedisCliDefaultHost, hostPort: RedisCliDefaultPort},
			output:   output,
		},
		gitSHA1:  gitSHA1,
		gitDirty: gitDirty,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	cli.cliRefreshPrompt()
	return cli
}

func (cli *RedisCli) Version() string {
	version := RedisVersion
	// Add git commit and working tree status when available
	if sha1Int, err := strconv.ParseUint(cli.gitSHA1, 16, 64); err == nil && sha1Int != 0 {
		version = fmt.Sprintf("%s (git:%s", version, cli.gitSHA1)
		if dirtyInt, err := strconv.ParseInt(cli.gitDirty, 10, 64); err == nil && dirtyInt != 0 {
			version = fmt.Sprintf("%s-dirty", version)
		}
		version = fmt.Sprintf("%s)", version)
	}
	return version
}

func (cli *RedisCli) Usage(out io.Writer) {
	fmt.Fprintf(out, `redis-cli %s

Usage: redis-cli [OPTIONS] [cmd [arg [arg ...]]]
  -h <hostname>      Server hostname (default: %s).
  -p <port>          Server port (default: %d).
  --raw              Use raw formatting for replies (default when STDOUT is
                     not a tty).
  --no-raw           Force formatted output even when STDOUT is not a tty.
  --help             Output this help and exit.
  --version          Output version and exit.

Examples:
  redis-cli set foo "hello world"
  redis-cli -p 8088 get foo

When no command is given, redis-cli starts in interactive mode.
Type "help" in interactive mode for information on available commands.
`, cli.Version(), RedisCliDefaultHost, RedisCliDefaultPort)
}

// ParseArgs consumes options from args. The first argument that is not an
// option starts the command. exit reports that --help or --version was
// handled and nothing else should run.
func (cli *RedisCli) ParseArgs(args []string) (exit bool, err error) {
	i := 0
	for ; i < len(args); i++ {
		arg := args[i]
		lastarg := i == len(args)-1

		switch {
		case arg == "-h" && !lastarg:
			i++
			cli.config.connInfo.hostIp = args[i]
		case arg == "-p" && !lastarg:
			i++
			port, err := strconv.Atoi(args[i])
			if err != nil || port <= 0 || port > 65535 {
				return false, fmt.Errorf("%w: invalid server port %q", ErrUsage, args[i])
			}
			cli.config.connInfo.hostPort = port
		case arg == "--raw":
			cli.config.output = OutputRaw
		case arg == "--no-raw":
			cli.config.output = OutputStandard
		case arg == "--help":
			cli.Usage(cli.out)
			return true, nil
		case arg == "-v" || arg == "--version":
			fmt.Fprintf(cli.out, "redis-cli %s\n", cli.Version())
			return true, nil
		case arg == "-h" || arg == "-p":
			return false, fmt.Errorf("%w: option %s needs an argument", ErrUsage, arg)
		case len(arg) > 1 && arg[0] == '-' && !isNumber(arg):
			return false, fmt.Errorf("%w: unrecognized option or bad number of args for: '%s'", ErrUsage, arg)
		default:
			cli.config.argv = args[i:]
			cli.cliRefreshPrompt()
			return false, nil
		}
	}
	cli.cliRefreshPrompt()
	return false, nil
}

// Run executes the command given on the command line, or starts the
// interactive loop when there is none.
func (cli *RedisCli) Run(ctx context.Context) error {
	defer cli.disconnect()

	if len(cli.config.argv) == 0 {
		// Failing to connect is not fatal here; the prompt says so.
		cli.connect(ctx, false)
		return cli.repl(ctx)
	}

	if err := cli.connect(ctx, false); err != nil {
		return err
	}
	return cli.issueCommand(cli.config.argv)
}

// connect dials the configured server. With force set an existing
// connection is replaced.
func (cli *RedisCli) connect(ctx context.Context, force bool) error {
	if cli.context != nil && !force {
		return nil
	}
	cli.disconnect()

	c, err := hredis.RedisConnect(ctx, cli.config.connInfo.hostIp, cli.config.connInfo.hostPort)
	if err != nil {
		fmt.Fprintf(cli.errOut, "%s\n", err)
		return err
	}
	c.Timeout = RedisCliRequestTimeout
	cli.context = c
	return nil
}

func (cli *RedisCli) disconnect() {
	if cli.context != nil {
		cli.context.Close()
		cli.context = nil
	}
}

// issueCommand sends argv and prints the reply. A broken connection is
// dropped so the next command reconnects.
func (cli *RedisCli) issueCommand(argv []string) error {
	if cli.context == nil {
		return hredis.ErrClosed
	}
	reply, err := cli.context.RedisCommandArgv(argv)
	if err != nil {
		cli.disconnect()
		fmt.Fprintf(cli.errOut, "Error: %s\n", err)
		return err
	}
	cli.printReply(reply)
	return nil
}

func (cli *RedisCli) printReply(reply resp.Frame) {
	if cli.config.output == OutputRaw {
		fmt.Fprint(cli.out, resp.FormatRaw(reply))
		return
	}
	fmt.Fprint(cli.out, resp.Format(reply))
}

func (cli *RedisCli) repl(ctx context.Context) error {
	var historyFile string

	line := linenoise.New()
	defer line.Close()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		historyFile = getDotfilePath(RedisCliHisFileEnv, RedisCliHisFileDefault)
		if historyFile != "" {
			if err := line.HistoryLoad(historyFile); err != nil {
				fmt.Fprintf(cli.errOut, "Could not load history: %s\n", err)
			}
		}
	}

	for {
		prompt := cli.config.prompt
		if cli.context == nil {
			prompt = "not connected> "
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, linenoise.ErrAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		argv, err := splitArgs(input)
		if historyFile != "" && strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
			line.HistorySave(historyFile)
		}
		if err != nil {
			fmt.Fprintf(cli.out, "Invalid argument(s)\n")
			continue
		}
		if len(argv) == 0 {
			continue
		}

		if quit := cli.dispatch(ctx, line, argv); quit {
			return nil
		}
	}
}

// dispatch handles one interactive line. It reports whether the session
// should end.
func (cli *RedisCli) dispatch(ctx context.Context, line *linenoise.LineNoise, argv []string) bool {
	// check if we have a repeat command option and need to skip the first arg
	repeat := 1
	if n, err := strconv.Atoi(argv[0]); err == nil && len(argv) > 1 {
		if n <= 0 {
			fmt.Fprintln(cli.out, "Invalid redis-cli repeat command option value.")
			return false
		}
		repeat = n
		argv = argv[1:]
	}

	switch {
	case strings.EqualFold(argv[0], "quit") || strings.EqualFold(argv[0], "exit"):
		return true
	case strings.EqualFold(argv[0], "help") || argv[0] == "?":
		cli.help(argv[1:])
	case len(argv) == 3 && strings.EqualFold(argv[0], "connect"):
		port, err := strconv.Atoi(argv[2])
		if err != nil {
			fmt.Fprintln(cli.out, "Invalid port number")
			return false
		}
		cli.config.connInfo.hostIp = argv[1]
		cli.config.connInfo.hostPort = port
		cli.cliRefreshPrompt()
		cli.connect(ctx, true)
	case len(argv) == 1 && strings.EqualFold(argv[0], "clear"):
		line.ClearScreen()
	default:
		for ; repeat > 0; repeat-- {
			if err := cli.connect(ctx, false); err != nil {
				return false
			}
			if err := cli.issueCommand(argv); err != nil {
				return false
			}
		}
	}
	return false
}

// cliRefreshPrompt rebuilds the prompt from the current connection target.
func (cli *RedisCli) cliRefreshPrompt() {
	cli.config.prompt = fmt.Sprintf("redis://%s:%d> ", cli.config.connInfo.hostIp, cli.config.connInfo.hostPort)
}

// splitArgs splits an input line into arguments. Arguments may be quoted
// with double quotes, which accept \n \r \t \b \a \xHH and \" escapes, or
// with single quotes, which only accept \'. A closing quote must be followed
// by a space or the end of the line.
func splitArgs(line string) ([]string, error) {
	var argv []string
	i := 0
	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i == len(line) {
			return argv, nil
		}

		var (
			current []byte
			inq     bool // inside "double quotes"
			insq    bool // inside 'single quotes'
			done    bool
		)
		for !done {
			if i == len(line) {
				if inq || insq {
					return nil, errors.New("unbalanced quotes")
				}
				break
			}
			c := line[i]
			switch {
			case inq:
				switch {
				case c == '\\' && i+3 < len(line) && line[i+1] == 'x' && isHexDigit(line[i+2]) && isHexDigit(line[i+3]):
					b, _ := strconv.ParseUint(line[i+2:i+4], 16, 8)
					current = append(current, byte(b))
					i += 3
				case c == '\\' && i+1 < len(line):
					i++
					switch line[i] {
					case 'n':
						current = append(current, '\n')
					case 'r':
						current = append(current, '\r')
					case 't':
						current = append(current, '\t')
					case 'b':
						current = append(current, '\b')
					case 'a':
						current = append(current, '\a')
					default:
						current = append(current, line[i])
					}
				case c == '"':
					if i+1 < len(line) && !isSpace(line[i+1]) {
						return nil, errors.New("closing quote must be followed by a space")
					}
					done = true
				default:
					current = append(current, c)
				}
			case insq:
				switch {
				case c == '\\' && i+1 < len(line) && line[i+1] == '\'':
					i++
					current = append(current, '\'')
				case c == '\'':
					if i+1 < len(line) && !isSpace(line[i+1]) {
						return nil, errors.New("closing quote must be followed by a space")
					}
					done = true
				default:
					current = append(current, c)
				}
			default:
				switch c {
				case ' ', '\n', '\r', '\t', 0:
					done = true
				case '"':
					inq = true
				case '\'':
					insq = true
				default:
					current = append(current, c)
				}
			}
			i++
		}
		argv = append(argv, string(current))
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\v' || c == '\f'
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func getDotfilePath(envOverride, dotFilename string) string {
	var dotPath string

	path := os.Getenv(envOverride)
	if path != "" {
		if path == "/dev/null" {
			return ""
		}
		dotPath = path
	} else {
		home, err := os.UserHomeDir()
		if err == nil && home != "" {
			dotPath = filepath.Join(home, dotFilename)
		}
	}
	return dotPath
}
