package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/specx2/oasclient"
	"github.com/specx2/oasclient/mcpbridge"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasclient v%s\n", oasclient.Version)
	case "help", "-h", "--help":
		printUsage()
	case "operations":
		if err := handleOperations(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "request":
		if err := handleRequest(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "call":
		if err := handleCall(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("oasclient - call any OpenAPI v3 described API from the command line")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  oasclient <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  operations  List the operations of a spec")
	fmt.Println("  request     Resolve an operation into a request descriptor without sending it")
	fmt.Println("  call        Resolve an operation and execute the HTTP request")
	fmt.Println("  mcp         Serve the spec's operations as MCP tools on stdio")
	fmt.Println("  version     Print version information")
	fmt.Println("  help        Print this help")
	fmt.Println()
	fmt.Println("Run 'oasclient <command> -h' for command-specific flags.")
}

// clientFlags are shared by every subcommand that builds a client.
type clientFlags struct {
	configPath  string
	baseURL     string
	timeout     time.Duration
	serverIndex int
	serverDesc  string
	serverVars  map[string]string
	headers     map[string]string
	strict      bool
	verbose     bool
}

func addClientFlags(fs *flag.FlagSet, flags *clientFlags) {
	flags.serverVars = make(map[string]string)
	flags.headers = make(map[string]string)

	fs.StringVar(&flags.configPath, "config", "", "YAML config file providing defaults for these flags")
	fs.StringVar(&flags.baseURL, "base-url", "", "Use this base URL instead of the document's servers")
	fs.DurationVar(&flags.timeout, "timeout", 30*time.Second, "HTTP client timeout")
	fs.IntVar(&flags.serverIndex, "server-index", -1, "Select the document server at this index")
	fs.StringVar(&flags.serverDesc, "server-description", "", "Select the document server matching this description")
	fs.Func("server-var", "Server URL template variable as name=value (repeatable)", func(value string) error {
		return setKeyValue(flags.serverVars, value)
	})
	fs.Func("header", "Default request header as name=value (repeatable)", func(value string) error {
		return setKeyValue(flags.headers, value)
	})
	fs.BoolVar(&flags.strict, "strict-path-params", false, "Fail on missing path parameters instead of substituting \"undefined\"")
	fs.BoolVar(&flags.verbose, "verbose", false, "Enable debug logging to stderr")
}

func setKeyValue(target map[string]string, value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", value)
	}
	target[name] = val
	return nil
}

// buildOptions folds the config file beneath the explicitly set flags and
// produces the client options.
func buildOptions(fs *flag.FlagSet, flags *clientFlags) ([]oasclient.Option, error) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if flags.configPath != "" {
		fileCfg, err := loadFileConfig(flags.configPath)
		if err != nil {
			return nil, err
		}
		fileCfg.applyTo(flags, set)
	}

	var opts []oasclient.Option

	switch {
	case flags.baseURL != "":
		opts = append(opts, oasclient.WithServer(oasclient.SelectServer(oasclient.Server{URL: flags.baseURL})))
	case flags.serverDesc != "":
		opts = append(opts, oasclient.WithServer(oasclient.SelectServerByDescription(flags.serverDesc)))
	case flags.serverIndex >= 0:
		opts = append(opts, oasclient.WithServer(oasclient.SelectServerByIndex(flags.serverIndex)))
	}

	if len(flags.serverVars) > 0 {
		variables := make(map[string]interface{}, len(flags.serverVars))
		for name, value := range flags.serverVars {
			variables[name] = decodeArgValue(value)
		}
		opts = append(opts, oasclient.WithServerVariables(variables))
	}

	if len(flags.headers) > 0 {
		opts = append(opts, oasclient.WithDefaultHeaders(flags.headers))
	}

	if flags.timeout > 0 {
		opts = append(opts, oasclient.WithTimeout(flags.timeout))
	}

	if flags.strict {
		opts = append(opts, oasclient.WithStrictPathParams())
	}

	if flags.verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, oasclient.WithLogger(oasclient.NewSlogAdapter(slog.New(handler))))
	}

	return opts, nil
}

// decodeArgValue interprets a flag value as JSON when possible, so numbers,
// booleans, arrays, and objects come through typed; everything else stays a
// string.
func decodeArgValue(raw string) interface{} {
	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}
	return decoded
}

func handleOperations(args []string) error {
	fs := flag.NewFlagSet("operations", flag.ContinueOnError)
	flags := &clientFlags{}
	addClientFlags(fs, flags)
	fs.Usage = func() {
		output := fs.Output()
		fmt.Fprintf(output, "Usage: oasclient operations [flags] <spec>\n\n")
		fmt.Fprintf(output, "List the operations of an OpenAPI document.\n\n")
		fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("operations command requires exactly one spec path")
	}

	client, err := buildClient(fs, flags, fs.Arg(0))
	if err != nil {
		return err
	}

	for _, op := range client.Operations() {
		name := op.OperationID
		if name == "" {
			name = "-"
		}
		fmt.Printf("%-7s %-40s %s\n", strings.ToUpper(op.Method), op.Path, name)
	}
	return nil
}

// callFlags extend clientFlags with the per-call argument tuple.
type callFlags struct {
	clientFlags
	params map[string]interface{}
	data   string
}

func addCallFlags(fs *flag.FlagSet, flags *callFlags) {
	addClientFlags(fs, &flags.clientFlags)
	flags.params = make(map[string]interface{})

	fs.Func("param", "Operation parameter as name=value; values parse as JSON when possible (repeatable)", func(value string) error {
		name, val, ok := strings.Cut(value, "=")
		if !ok || name == "" {
			return fmt.Errorf("expected name=value, got %q", value)
		}
		flags.params[name] = decodeArgValue(val)
		return nil
	})
	fs.StringVar(&flags.data, "data", "", "Request payload; parses as JSON when possible")
}

func (f *callFlags) callArgs() []interface{} {
	var args []interface{}
	if len(f.params) > 0 {
		args = append(args, oasclient.MapParams(f.params))
	} else if f.data != "" {
		args = append(args, nil)
	}
	if f.data != "" {
		args = append(args, decodeArgValue(f.data))
	}
	return args
}

func handleRequest(args []string) error {
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	flags := &callFlags{}
	addCallFlags(fs, flags)
	fs.Usage = func() {
		output := fs.Output()
		fmt.Fprintf(output, "Usage: oasclient request [flags] <spec> <operationId>\n\n")
		fmt.Fprintf(output, "Resolve an operation into a request descriptor and print it as JSON,\n")
		fmt.Fprintf(output, "without performing any network call.\n\n")
		fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  oasclient request petstore.yaml getPetById -param petId=1\n")
		fmt.Fprintf(output, "  oasclient request petstore.yaml findPets -param 'tags=[\"dog\",\"cat\"]'\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("request command requires a spec path and an operationId")
	}

	client, err := buildClient(fs, &flags.clientFlags, fs.Arg(0))
	if err != nil {
		return err
	}

	descriptor, err := client.Op(fs.Arg(1)).Descriptor(flags.callArgs()...)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func handleCall(args []string) error {
	fs := flag.NewFlagSet("call", flag.ContinueOnError)
	flags := &callFlags{}
	addCallFlags(fs, flags)
	fs.Usage = func() {
		output := fs.Output()
		fmt.Fprintf(output, "Usage: oasclient call [flags] <spec> <operationId>\n\n")
		fmt.Fprintf(output, "Resolve an operation, execute the HTTP request, and print the\n")
		fmt.Fprintf(output, "response body to stdout. The status line goes to stderr.\n\n")
		fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  oasclient call petstore.yaml getPetById -param petId=1\n")
		fmt.Fprintf(output, "  oasclient call petstore.yaml createPet -data '{\"name\":\"rex\"}'\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("call command requires a spec path and an operationId")
	}

	client, err := buildClient(fs, &flags.clientFlags, fs.Arg(0))
	if err != nil {
		return err
	}

	resp, err := client.Op(fs.Arg(1)).Call(context.Background(), flags.callArgs()...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	fmt.Fprintln(os.Stderr, resp.Status)
	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	fmt.Println()
	return nil
}

func handleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	flags := &clientFlags{}
	addClientFlags(fs, flags)

	serverName := fs.String("server-name", "oasclient", "MCP server name")
	serverVersion := fs.String("server-version", oasclient.Version, "MCP server version")
	var onlyMethods []string
	fs.Func("only-method", "Serve only operations with this HTTP method (repeatable)", func(value string) error {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		onlyMethods = append(onlyMethods, value)
		return nil
	})
	var excludePaths []string
	fs.Func("exclude-path", "Exclude operations whose path matches this regular expression (repeatable)", func(value string) error {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		excludePaths = append(excludePaths, value)
		return nil
	})

	fs.Usage = func() {
		output := fs.Output()
		fmt.Fprintf(output, "Usage: oasclient mcp [flags] <spec>\n\n")
		fmt.Fprintf(output, "Serve the spec's operations as MCP tools on stdin/stdout.\n\n")
		fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  oasclient mcp petstore.yaml -base-url https://api.example.com\n")
		fmt.Fprintf(output, "  oasclient mcp petstore.yaml -only-method GET -exclude-path '^/internal/'\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("mcp command requires exactly one spec path")
	}

	client, err := buildClient(fs, flags, fs.Arg(0))
	if err != nil {
		return err
	}

	bridgeOpts := []mcpbridge.Option{
		mcpbridge.WithServerInfo(*serverName, *serverVersion),
	}
	if filter := buildFilter(onlyMethods, excludePaths); filter != nil {
		bridgeOpts = append(bridgeOpts, mcpbridge.WithFilter(filter))
	}
	if flags.verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		bridgeOpts = append(bridgeOpts, mcpbridge.WithLogger(oasclient.NewSlogAdapter(slog.New(handler))))
	}

	bridge, err := mcpbridge.New(client, bridgeOpts...)
	if err != nil {
		return err
	}

	if err := bridge.ServeStdio(context.Background()); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func buildFilter(onlyMethods, excludePaths []string) *mcpbridge.Filter {
	if len(onlyMethods) == 0 && len(excludePaths) == 0 {
		return nil
	}

	var rules []*mcpbridge.Rule
	for _, pattern := range excludePaths {
		rules = append(rules, mcpbridge.NewRule().WithPathPattern(pattern).AsExclude())
	}
	if len(onlyMethods) > 0 {
		rules = append(rules,
			mcpbridge.NewRule().WithMethods(onlyMethods...),
			mcpbridge.NewRule().AsExclude(),
		)
	}
	return mcpbridge.NewFilter(rules...)
}

func buildClient(fs *flag.FlagSet, flags *clientFlags, specPath string) (*oasclient.Client, error) {
	opts, err := buildOptions(fs, flags)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(specPath, "http://") || strings.HasPrefix(specPath, "https://") {
		return oasclient.NewFromURL(context.Background(), specPath, opts...)
	}
	return oasclient.NewFromFile(specPath, opts...)
}
