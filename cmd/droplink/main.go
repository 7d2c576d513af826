package main

import (
	"flag"
	"fmt"
	"os"

	"droplink/internal/client"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "droplink server base URL")
	username := flag.String("user", "admin", "login username")
	loginPassword := flag.String("login-password", "password123", "login password")
	sharePassword := flag.String("password", "", "protect the share with a password")
	maxDownloads := flag.Int("max-downloads", 0, "cap the number of downloads (0 = unlimited)")
	expiryHours := flag.Int("expiry-hours", 0, "expire the share after this many hours (0 = never)")
	description := flag.String("description", "", "free-text description for the share")
	flag.Parse()

	path, err := client.ResolveFile(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c := client.New(*server)
	if err := c.Login(*username, *loginPassword); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result, err := c.Upload(path, client.UploadOptions{
		Password:     *sharePassword,
		MaxDownloads: *maxDownloads,
		ExpiryHours:  *expiryHours,
		Description:  *description,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Uploaded %s (%s)\n", result.FileName, result.FileSize)
	fmt.Printf("Share link: %s%s\n", *server, result.ShareURL)
	if result.HasPassword {
		fmt.Println("Password protected: yes")
	}
	if result.MaxDownloads > 0 {
		fmt.Printf("Max downloads: %d\n", result.MaxDownloads)
	}
	if result.ExpiryTime != nil {
		fmt.Printf("Expires: %s\n", *result.ExpiryTime)
	}
}
