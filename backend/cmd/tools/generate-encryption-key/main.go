package main

import (
	"fmt"
	"log"

	"github.com/bloodlink-dev/bloodlink/shared/crypto"
)

func main() {
	key, err := crypto.GenerateKey()
	if err != nil {
		log.Fatalf("Failed to generate encryption key: %v", err)
	}

	fmt.Println("=================================================")
	fmt.Println("  Field Encryption Key (AES-256)")
	fmt.Println("  Protects patient names, addresses, MRIDs and phones")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println(key)
	fmt.Println()
	fmt.Println("Put it into backend/config/private.yaml:")
	fmt.Printf("encryption_key: \"%s\"\n", key)
	fmt.Println()
	fmt.Println("Rotating this key makes already stored fields unreadable.")
}
