package config

import (
	"flag"
	"os"
	"time"

	"github.com/photodrop/photodrop/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   FTP control bind address (e.g., ":2121")
//	-pl int     passive port range start (inclusive)
//	-ph int     passive port range end (inclusive)
//	-H string   advertised passive address (empty = auto-discover)
//	-i int      idle timeout, seconds
//	-t string   temp root directory for in-flight uploads
//	-w int      max concurrent ingest handoffs
//	-d string   PostgreSQL DSN
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-pl", "-ph", "-H", "-i", "-t", "-w", "-d", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port for the FTP control listener")
	fs.IntVar(&config.PasvPortStart, "pl", config.PasvPortStart, "passive port range start (inclusive)")
	fs.IntVar(&config.PasvPortEnd, "ph", config.PasvPortEnd, "passive port range end (inclusive)")
	fs.StringVar(&config.PublicHost, "H", config.PublicHost, "advertised passive-mode address")

	idleTimeout := fs.Int("i", int(config.IdleTimeout.Seconds()), "idle timeout (in seconds)")

	fs.StringVar(&config.TempRoot, "t", config.TempRoot, "temp root directory")
	fs.IntVar(&config.MaxConcurrentIngests, "w", config.MaxConcurrentIngests, "max concurrent ingest handoffs")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.IdleTimeout = time.Duration(*idleTimeout) * time.Second
}
