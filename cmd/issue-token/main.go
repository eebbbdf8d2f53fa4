// Command issue-token prints a bearer token for a user id, for local
// development against a server sharing the same JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"

	"wealthwatcher/internal/cli"
	"wealthwatcher/internal/config"
	"wealthwatcher/internal/identity"
)

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()

	userID := flag.String("user", "", "user id carried by the token")
	ttl := flag.Duration("ttl", cfg.TokenTTL, "token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: issue-token -user <id> [-ttl 1h]")
		os.Exit(2)
	}

	tokens, err := identity.NewManager(cfg.JWTSecret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "JWT_SECRET: %v\n", err)
		os.Exit(1)
	}
	token, err := tokens.Issue(*userID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
