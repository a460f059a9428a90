package main

import (
	"github.com/opengrid-project/gridctl/cmd/cli"

	_ "github.com/joho/godotenv/autoload" // pick up .env files carrying local signer keys
)

func main() {
	cli.Execute()
}
