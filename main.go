package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"agrisense/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := utils.CreateFolder("storage"); err != nil {
		utils.LogError(context.Background(), "Failed to create storage dir.", err)
	}

	if len(os.Args) < 2 {
		fmt.Println("Expected 'serve' subcommand")
		os.Exit(1)
	}
	_ = godotenv.Load()

	switch os.Args[1] {
	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		protocol := serveCmd.String("proto", "http", "Protocol to use (http or https)")
		port := serveCmd.String("p", "5000", "Port to use")
		serveCmd.Parse(os.Args[2:])
		serve(*protocol, *port)
	default:
		fmt.Println("Expected 'serve' subcommand")
		os.Exit(1)
	}
}
