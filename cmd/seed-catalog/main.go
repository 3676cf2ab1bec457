// Command seed-catalog loads product feed files (plain .json or
// gzipped .json.gz) into the products table. Feeds are parsed
// concurrently; rows sharing an id are deduplicated with the last
// parsed file winning, matching the upsert semantics.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
	"github.com/thokbazar/wholesale-core/internal/storage/postgres"
)

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one feed file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	slog.Info("parsing feed files", slog.Int("count", len(files)))

	var (
		mu       sync.Mutex
		products = make(map[string]catalog.Product)
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, file := range files {
		g.Go(func() error {
			parsed, err := parseFeedFile(file)
			if err != nil {
				return errors.Wrapf(err, "parse %s", file)
			}
			if err := gCtx.Err(); err != nil {
				return err
			}
			mu.Lock()
			for _, p := range parsed {
				products[p.ID] = p
			}
			mu.Unlock()
			slog.Info("parsed feed", slog.String("file", file), slog.Int("products", len(parsed)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewProductRepository(pool)
	for _, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
	}

	slog.Info("products seeded", slog.Int("count", len(products)))
	return nil
}

// parseFeedFile reads one feed file, transparently decompressing
// gzipped feeds.
func parseFeedFile(path string) ([]catalog.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip")
		}
		defer gz.Close()
		r = gz
	}

	return parseFeed(r)
}

// parseFeed streaming-decodes a JSON array of product objects.
func parseFeed(r io.Reader) ([]catalog.Product, error) {
	d := jx.Decode(r, 4096)

	var products []catalog.Product
	err := d.Arr(func(d *jx.Decoder) error {
		var p catalog.Product
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				v, err := d.Str()
				p.ID = v
				return err
			case "name":
				v, err := d.Str()
				p.Name = v
				return err
			case "price":
				n, err := d.Num()
				if err != nil {
					return err
				}
				price, err := decimal.NewFromString(strings.Trim(n.String(), `"`))
				if err != nil {
					return errors.Wrap(err, "parse price")
				}
				p.Price = price
				return nil
			case "priceUnit":
				v, err := d.Str()
				p.Unit = catalog.Unit(v)
				return err
			case "packagingCount":
				v, err := d.Int()
				p.PackagingCount = v
				return err
			case "imageUrl":
				v, err := d.Str()
				p.ImageURL = v
				return err
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}

		if p.ID == "" {
			return errors.New("product id is required")
		}
		if !p.Unit.IsValid() {
			return errors.Errorf("product %s: unknown price unit %q", p.ID, p.Unit)
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode feed")
	}
	return products, nil
}
