package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/startupradar/transformers/common"
	"github.com/startupradar/transformers/modules/startupradar"
)

type options struct {
	APIKey   string `short:"k" long:"api-key" env:"STARTUPRADAR_API_KEY" description:"StartupRadar API key" required:"true"`
	Domain   string `short:"d" long:"domain" description:"registrable domain to look up" required:"true"`
	CacheDir string `long:"cache-dir" description:"directory for the response cache" default:".startupradar-cache"`
	NoCache  bool   `long:"no-cache" description:"bypass the persistent cache"`
	Links    bool   `long:"links" description:"also fetch outbound links and backlinks"`
	Verbose  bool   `short:"v" long:"verbose" description:"enable debug logging"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	logger := zap.NewNop()
	if opts.Verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	var cache startupradar.ResponseCache
	if !opts.NoCache {
		store, err := common.NewFileStore(opts.CacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cache = startupradar.NewKeyValueCache(store)
	}

	httpClient := common.NewRadarHttpClient("startupradar-transformers-go", &http.Client{})
	client := startupradar.NewClient(startupradar.DefaultBaseURL, opts.APIKey, httpClient,
		startupradar.WithLogger(logger))
	svc := startupradar.NewService(client, cache, startupradar.WithLogger(logger))

	ctx := context.Background()
	out := make(map[string]interface{})

	record, err := svc.GetDomain(ctx, opts.Domain)
	if err != nil {
		fail(err)
	}
	out["domain"] = record

	whois, err := svc.GetWhois(ctx, opts.Domain)
	if err != nil && !isNotFound(err) {
		fail(err)
	}
	out["whois"] = whois

	socials, err := svc.GetSocials(ctx, opts.Domain)
	if err != nil && !isNotFound(err) {
		fail(err)
	}
	out["socials"] = socials

	if opts.Links {
		links, err := svc.GetLinks(ctx, opts.Domain)
		if err != nil && !isNotFound(err) {
			fail(err)
		}
		out["links"] = links

		backlinks, err := svc.GetBacklinks(ctx, opts.Domain)
		if err != nil && !isNotFound(err) {
			fail(err)
		}
		out["backlinks"] = backlinks
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fail(err)
	}
	fmt.Println(string(encoded))
}

func isNotFound(err error) bool {
	var notFound *startupradar.NotFoundError
	return errors.As(err, &notFound)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
