// Command manifest regenerates the course catalog manifest from the
// content tree.
//
// Usage:
//
//	manifest build
package main

import (
	"fmt"
	"log"
	"os"

	"portal/backend/config"
	"portal/backend/content"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] != "build" {
		fmt.Fprintf(os.Stderr, "usage: %s build\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	manifest, err := content.BuildManifest(cfg.ContentRoot, cfg.ManifestPath)
	if err != nil {
		log.Fatalf("build manifest: %v", err)
	}

	invalid := 0
	for _, course := range manifest.Courses {
		if !course.Valid {
			invalid++
			log.Printf("invalid course %q: %v", course.ID, course.Errors)
		}
	}
	log.Printf("wrote %s: %d courses (%d invalid)", cfg.ManifestPath, len(manifest.Courses), invalid)
}
