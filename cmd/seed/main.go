package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/config"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Lists is the seed file layout.
type Lists struct {
	Sectors []string `yaml:"sectors"`
	Tags    []string `yaml:"tags"`
}

func main() {
	_ = godotenv.Load()

	filePath := flag.String("file", "data/lists.yaml", "Path to the sectors and tags file")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "Administrator email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Administrator password")
	dryRun := flag.Bool("dry-run", false, "Only print what would be created")
	flag.Parse()

	lists, err := loadLists(*filePath)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *filePath, err)
	}
	log.Printf("Loaded %d sectors and %d tags from %s", len(lists.Sectors), len(lists.Tags), *filePath)

	cfg := config.Load()
	ctx := context.Background()

	api := client.New(cfg.BackendURL, cfg.BackendTimeout)
	au, err := api.Login(ctx, model.Credentials{Email: *email, Password: *password})
	if err != nil {
		log.Fatalf("Failed to log in: %v", err)
	}
	admin := api.WithToken(au.Token)

	sectors, err := admin.ListSectors(ctx)
	if err != nil {
		log.Fatalf("Failed to list sectors: %v", err)
	}
	existing := make([]string, 0, len(sectors))
	for _, s := range sectors {
		existing = append(existing, s.Name)
	}
	res := seed(existing, lists.Sectors, *dryRun, func(name string) error {
		_, err := admin.CreateSector(ctx, model.SectorInput{Name: name})
		return err
	})
	log.Printf("Sectors: %s", res)

	tags, err := admin.ListTags(ctx)
	if err != nil {
		log.Fatalf("Failed to list tags: %v", err)
	}
	res = seed(model.TagNames(tags), lists.Tags, *dryRun, func(name string) error {
		_, err := admin.CreateTag(ctx, model.TagInput{Name: name})
		return err
	})
	log.Printf("Tags: %s", res)
}

func loadLists(path string) (*Lists, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lists Lists
	if err := yaml.Unmarshal(raw, &lists); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &lists, nil
}

// missing returns the wanted names not yet in existing, ignoring case and
// surrounding blanks, and how many distinct wanted names already exist.
// Duplicates in wanted are collapsed.
func missing(existing, wanted []string) (out []string, present int) {
	have := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		have[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	seen := make(map[string]struct{}, len(wanted))
	for _, name := range wanted {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := have[key]; ok {
			present++
			continue
		}
		out = append(out, name)
	}
	return out, present
}

// Result counts what one seeding pass did.
type Result struct {
	Inserted int
	Failed   int
	Planned  int
	Present  int
}

func (r Result) String() string {
	return fmt.Sprintf("inserted=%d, failed=%d, would create=%d, already present=%d",
		r.Inserted, r.Failed, r.Planned, r.Present)
}

// seed creates the wanted names missing from existing. A dry run only
// counts them as planned.
func seed(existing, wanted []string, dryRun bool, create func(string) error) Result {
	names, present := missing(existing, wanted)
	res := Result{Present: present}
	for _, name := range names {
		if dryRun {
			log.Printf("Would create %q", name)
			res.Planned++
			continue
		}
		if err := create(name); err != nil {
			log.Printf("Error creating %q: %v", name, err)
			res.Failed++
			continue
		}
		res.Inserted++
	}
	return res
}
