package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rlmonteiro/essencia-backend/pkg/config"
	"github.com/rlmonteiro/essencia-backend/pkg/security"
)

// Mints the Argon2id hash expected in ESSENCIA_ADMIN_PASSWORD_HASH.
func main() {
	_ = godotenv.Load()

	password := flag.String("password", "", "password to hash (read from stdin when omitted)")
	flag.Parse()

	value := *password
	if value == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintf(os.Stderr, "reading password: %v\n", err)
			os.Exit(1)
		}
		value = strings.TrimSpace(line)
	}
	if value == "" {
		fmt.Fprintln(os.Stderr, "password cannot be empty")
		os.Exit(1)
	}

	var cfg config.PasswordConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parsing argon parameters: %v\n", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(value, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
