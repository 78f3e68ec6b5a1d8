// Package notice converts raw bulletin XML documents into persisted
// procurement records.
package notice

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/tenderhound/tenderhound/internal/domain"
	"github.com/tenderhound/tenderhound/internal/registry"
	"github.com/tenderhound/tenderhound/internal/storage"
)

// Normalizer parses notice files, resolves record fields through the
// mapping tables and upserts the results. Every content-level problem is a
// soft skip: the file contributes no record and processing continues.
type Normalizer struct {
	mapping  Mapping
	registry registry.Client
	store    storage.Storer
}

func NewNormalizer(mapping Mapping, reg registry.Client, store storage.Storer) *Normalizer {
	return &Normalizer{
		mapping:  mapping,
		registry: reg,
		store:    store,
	}
}

// ProcessFile reads and normalizes one member file from an extracted
// archive. Returns the number of records persisted; never an error, since
// corpus-level faults are expected and only logged.
func (n *Normalizer) ProcessFile(ctx context.Context, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read notice file", "path", path, "error", err)
		return 0
	}
	return n.Process(ctx, data)
}

// Process normalizes one notice document. A document whose contract-award
// block holds several parts fans out into one independent record per part.
func (n *Normalizer) Process(ctx context.Context, data []byte) int {
	doc, err := Parse(data)
	if err != nil {
		slog.Warn("Skipping malformed notice XML", "error", err)
		return 0
	}

	persisted := 0
	for _, part := range splitParts(doc) {
		if n.normalizeOne(ctx, part) {
			persisted++
		}
	}
	return persisted
}

// splitParts fans a document out into one sub-document per contract-award
// part when part_5_list.part_5 is a list. Each sub-document is a shallow
// copy of the top level with the award block reduced to a single part, so
// parts share no mutable state.
func splitParts(doc RawDocument) []RawDocument {
	p5l, ok := doc["part_5_list"].(map[string]any)
	if !ok {
		return []RawDocument{doc}
	}
	parts, ok := p5l["part_5"].([]any)
	if !ok {
		return []RawDocument{doc}
	}

	docs := make([]RawDocument, 0, len(parts))
	for _, part := range parts {
		sub := make(RawDocument, len(doc))
		for k, v := range doc {
			sub[k] = v
		}
		sub["part_5_list"] = map[string]any{"part_5": part}
		docs = append(docs, sub)
	}
	return docs
}

func (n *Normalizer) normalizeOne(ctx context.Context, doc RawDocument) bool {
	id := doc.Text("id")
	if id == "" {
		slog.Debug("Skipping notice without document id")
		return false
	}

	typ := domain.NoticeType(doc.Text("type"))
	if typ == "" {
		slog.Debug("Skipping notice without type", "document_id", id)
		return false
	}
	if !n.mapping.Allowed(typ) {
		slog.Debug("Skipping notice of unhandled type", "document_id", id, "type", typ)
		return false
	}

	winners := extractWinners(doc)
	if len(winners) == 0 {
		slog.Debug("Skipping notice without winners", "document_id", id, "type", typ)
		return false
	}
	n.resolveRegDates(ctx, winners)

	record := domain.ProcurementNotice{
		DocumentID:      id,
		Type:            typ,
		AuthorityName:   resolveString(doc, n.mapping.AuthorityName),
		AuthorityRegNum: resolveString(doc, n.mapping.AuthorityRegNum),
		Price:           resolveFloat(doc, n.mapping.Price),
		PriceFrom:       resolveFloat(doc, n.mapping.PriceFrom),
		PriceTo:         resolveFloat(doc, n.mapping.PriceTo),
		DecisionDate:    resolveString(doc, n.mapping.DecisionDate),
		TenderNum:       resolveInt(doc, n.mapping.TenderNum),
		Currency:        resolveFloat(doc, n.mapping.Currency),
		EuFund:          resolveString(doc, n.mapping.EuFund) == "1",
		Winners:         winners,
	}

	if err := n.store.Upsert(ctx, record); err != nil {
		slog.Error("Failed to upsert notice", "document_id", id, "error", err)
		return false
	}
	return true
}

// resolveRegDates looks up the registration date for each unique valid
// registration number concurrently, joins the batch and applies each
// resolved date to every winner sharing the number. Lookup failures leave
// the date empty.
func (n *Normalizer) resolveRegDates(ctx context.Context, winners []domain.Winner) {
	nums := uniqueRegNums(winners)

	dates := make(map[string]string, len(nums))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, num := range nums {
		if !registry.ValidRegNum(num) {
			slog.Debug("Skipping registry lookup for malformed reg num", "reg_num", num)
			continue
		}
		wg.Add(1)
		go func(num string) {
			defer wg.Done()
			date, err := n.registry.RegistrationDate(ctx, num)
			if err != nil {
				slog.Warn("Registry lookup failed", "reg_num", num, "error", err)
				return
			}
			mu.Lock()
			dates[num] = date
			mu.Unlock()
		}(num)
	}
	wg.Wait()

	for i := range winners {
		if date, ok := dates[winners[i].WinnerRegNum]; ok {
			winners[i].WinnerRegDate = date
		}
	}
}

// resolveString walks the path chain and returns the first non-empty text
// value, or "".
func resolveString(doc RawDocument, paths []string) string {
	for _, p := range paths {
		if v := doc.Text(p); v != "" {
			return v
		}
	}
	return ""
}

// resolveFloat is resolveString with numeric parsing: the first non-empty
// value that parses wins. Non-numeric values never fail the record; when no
// path yields a parseable number the field is nil.
func resolveFloat(doc RawDocument, paths []string) *float64 {
	for _, p := range paths {
		v := doc.Text(p)
		if v == "" {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func resolveInt(doc RawDocument, paths []string) *int {
	for _, p := range paths {
		v := doc.Text(p)
		if v == "" {
			continue
		}
		if i, err := strconv.Atoi(v); err == nil {
			return &i
		}
	}
	return nil
}
