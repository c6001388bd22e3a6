package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/calyxhq/calyx/internal/domain/product"
	"github.com/calyxhq/calyx/internal/storage/postgres"
)

const (
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
	feedFields    = 6
	minSKULen     = 4
	maxSKULen     = 32
)

// feedRow is one parsed catalog feed line:
// sku,title,handle,type_id,price,currency_code.
type feedRow struct {
	sku          string
	title        string
	handle       string
	typeID       string
	price        decimal.Decimal
	currencyCode string
}

// fileResult holds SKUs found in a single feed during pass 2, as a
// bitmask of which feeds carry them.
type fileResult struct {
	candidates map[string]uint
}

func main() {
	var (
		dataDir     string
		numFiles    int
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing catalogN.gz feed files")
	flag.IntVar(&numFiles, "feeds", 3, "number of catalogN.gz feed files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, numFiles, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir string, numFiles int, databaseURL string) error {
	files := make([]string, numFiles)
	for i := range numFiles {
		files[i] = filepath.Join(dataDir, fmt.Sprintf("catalog%d.gz", i+1))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: build one bloom filter of SKUs per feed, concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("feeds", numFiles))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: find SKUs listed by 2+ feeds. These are cross-feed
	// conflicts where only the highest-priority feed may win.
	slog.Info("pass 2: finding cross-feed SKUs")

	conflicts, err := findConflictSKUs(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "find conflict skus")
	}

	slog.Info("cross-feed skus found", slog.Int("count", len(conflicts)))

	// Pass 3: stream feeds in priority order and upsert products.
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := writeProducts(ctx, postgres.NewProductRepository(pool), files, conflicts); err != nil {
		return errors.Wrap(err, "write products to database")
	}

	return nil
}

// buildBloomFilters creates one bloom filter per feed file, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(line string) {
			sku := skuOfLine(line)
			if sku == "" {
				return
			}
			filter.AddString(sku)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("feed", idx+1),
					slog.Uint64("rows", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for feed %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("feed", idx+1),
			slog.Uint64("total_rows", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findConflictSKUs re-streams each feed and checks SKUs against OTHER
// feeds' bloom filters. A SKU conflicts if 2+ feeds carry it.
func findConflictSKUs(ctx context.Context, files []string, filters []*bloom.BloomFilter) (map[string]struct{}, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge bitmasks from all feeds.
	merged := make(map[string]uint)
	for _, r := range results {
		for sku, mask := range r.candidates {
			merged[sku] |= mask
		}
	}

	conflicts := make(map[string]struct{})
	for sku, mask := range merged {
		if bits.OnesCount(mask) >= 2 {
			conflicts[sku] = struct{}{}
		}
	}

	return conflicts, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		candidates := make(map[string]uint)
		fileBit := uint(1) << uint(idx)
		var count uint64

		if err := streamGzFile(ctx, path, func(line string) {
			sku := skuOfLine(line)
			if sku == "" {
				return
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("feed", idx+1),
					slog.Uint64("rows", count),
				)
			}

			// Check if this SKU appears in any OTHER feed's bloom filter.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(sku) {
					candidates[sku] |= fileBit
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan feed %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("feed", idx+1),
			slog.Uint64("total_rows", count),
			slog.Int("candidates", len(candidates)),
		)

		results[idx] = fileResult{candidates: candidates}
		return nil
	}
}

// writeProducts streams the feeds in priority order (lowest-numbered feed
// first) and upserts each row. A conflicting SKU is written only from the
// first feed that carries it.
func writeProducts(
	ctx context.Context,
	repo *postgres.ProductRepository,
	files []string,
	conflicts map[string]struct{},
) error {
	written := make(map[string]struct{}, len(conflicts))

	var (
		total   uint64
		skipped uint64
		bad     uint64
	)
	for idx, path := range files {
		var ingestErr error
		if err := streamGzFile(ctx, path, func(line string) {
			if ingestErr != nil {
				return
			}

			row, err := parseFeedRow(line)
			if err != nil {
				bad++
				return
			}

			if _, conflict := conflicts[row.sku]; conflict {
				if _, done := written[row.sku]; done {
					skipped++
					return
				}
				written[row.sku] = struct{}{}
			}

			if err := repo.UpsertBySKU(ctx, &product.Product{
				ID:           "prod_" + uuid.NewString(),
				Title:        row.title,
				Handle:       row.handle,
				SKU:          row.sku,
				TypeID:       row.typeID,
				Price:        row.price,
				CurrencyCode: row.currencyCode,
			}); err != nil {
				ingestErr = errors.Wrapf(err, "upsert sku %s", row.sku)
				return
			}

			total++
			if total%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", total))
			}
		}); err != nil {
			return errors.Wrapf(err, "ingest feed %d", idx+1)
		}
		if ingestErr != nil {
			return ingestErr
		}

		slog.Info("feed ingested", slog.Int("feed", idx+1))
	}

	slog.Info("write complete",
		slog.Uint64("written", total),
		slog.Uint64("conflict_rows_skipped", skipped),
		slog.Uint64("malformed_rows", bad),
	)

	return nil
}

// parseFeedRow parses sku,title,handle,type_id,price,currency_code.
func parseFeedRow(line string) (feedRow, error) {
	parts := strings.Split(line, ",")
	if len(parts) != feedFields {
		return feedRow{}, errors.Errorf("expected %d fields, got %d", feedFields, len(parts))
	}

	sku := strings.TrimSpace(parts[0])
	if len(sku) < minSKULen || len(sku) > maxSKULen {
		return feedRow{}, errors.Errorf("sku length out of range: %q", sku)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(parts[4]))
	if err != nil {
		return feedRow{}, errors.Wrapf(err, "parse price %q", parts[4])
	}

	return feedRow{
		sku:          sku,
		title:        strings.TrimSpace(parts[1]),
		handle:       strings.TrimSpace(parts[2]),
		typeID:       strings.TrimSpace(parts[3]),
		price:        price,
		currencyCode: strings.ToLower(strings.TrimSpace(parts[5])),
	}, nil
}

// skuOfLine extracts the SKU column without fully parsing the row.
func skuOfLine(line string) string {
	i := strings.IndexByte(line, ',')
	if i < 0 {
		return ""
	}
	sku := strings.TrimSpace(line[:i])
	if len(sku) < minSKULen || len(sku) > maxSKULen {
		return ""
	}
	return sku
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
