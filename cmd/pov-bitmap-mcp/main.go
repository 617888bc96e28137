package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/pov-bitmap-mcp/internal/config"
	"github.com/ironsheep/pov-bitmap-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv(config.EnvPath)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pov-bitmap-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "convert":
			os.Exit(runConvert(os.Args[2:], configPath))
		case "init-config":
			os.Exit(runInitConfig(os.Args[2:]))
		case "--config":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				os.Exit(2)
			}
			configPath = os.Args[2]
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("POV_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("POV Bitmap MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if debug {
		log.Printf("loaded %d profile(s), default %q", len(cfg.Profiles), cfg.DefaultProfile)
	}

	srv := server.New(cfg, server.WithDebug(debug))
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage() {
	fmt.Println("pov-bitmap-mcp - MCP server converting images to LED bitmaps")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pov-bitmap-mcp [--config FILE]          Run the MCP server on stdin/stdout")
	fmt.Println("  pov-bitmap-mcp convert [flags] IMAGE... Convert images and print source code")
	fmt.Println("  pov-bitmap-mcp init-config FILE         Write the default config to FILE")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  POV_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  POV_MCP_CONFIG=FILE        YAML config with conversion profiles")
	fmt.Println()
	fmt.Println("Run 'pov-bitmap-mcp convert -h' for conversion flags.")
}
