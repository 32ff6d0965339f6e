package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/table"
)

// File is a durable Store: an in-memory index backed by per-table
// directories of atomic JSON snapshots and append-only JSONL action logs.
//
//	<dir>/table-<id>/table.json
//	<dir>/table-<id>/seats.json
//	<dir>/table-<id>/hand-<id>.json
//	<dir>/table-<id>/actions-<id>.jsonl
//
// A restarted server reloads everything and resumes parked hands.
type File struct {
	mem *Memory
	dir string
}

// tableSnapshot is the table.json payload
type tableSnapshot struct {
	Table      *table.Table `json:"table"`
	LatestHand string       `json:"latestHand,omitempty"`
}

// NewFile opens (creating if needed) a file-backed store rooted at dir
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	f := &File{mem: NewMemory(), dir: dir}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) tableDir(tableID string) string {
	return filepath.Join(f.dir, "table-"+tableID)
}

func (f *File) load() error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("read store dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "table-") {
			continue
		}
		dir := filepath.Join(f.dir, entry.Name())

		var snap tableSnapshot
		if err := readJSON(filepath.Join(dir, "table.json"), &snap); err != nil {
			return err
		}
		if err := f.mem.CreateTable(snap.Table); err != nil {
			return err
		}

		var seats []*table.Seat
		if err := readJSON(filepath.Join(dir, "seats.json"), &seats); err == nil {
			for _, s := range seats {
				if err := f.mem.CreateSeat(s); err != nil {
					return err
				}
			}
		}

		files, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read table dir: %w", err)
		}
		for _, file := range files {
			name := file.Name()
			switch {
			case strings.HasPrefix(name, "hand-") && strings.HasSuffix(name, ".json"):
				var h engine.Hand
				if err := readJSON(filepath.Join(dir, name), &h); err != nil {
					return err
				}
				if err := f.mem.CreateHand(&h); err != nil {
					return err
				}
			case strings.HasPrefix(name, "actions-") && strings.HasSuffix(name, ".jsonl"):
				if err := f.loadActions(filepath.Join(dir, name)); err != nil {
					return err
				}
			}
		}

		// CreateHand marks each loaded hand latest in turn; restore the
		// recorded one.
		if snap.LatestHand != "" {
			f.mem.mu.Lock()
			f.mem.latestHand[snap.Table.ID] = snap.LatestHand
			f.mem.mu.Unlock()
		}
	}
	return nil
}

func (f *File) loadActions(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec engine.ActionRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return fmt.Errorf("parse action log %s: %w", path, err)
		}
		if err := f.mem.AppendAction(&rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (f *File) persistTable(tableID string) error {
	t, err := f.mem.GetTable(tableID)
	if err != nil {
		return err
	}
	snap := tableSnapshot{Table: t}
	f.mem.mu.RLock()
	snap.LatestHand = f.mem.latestHand[tableID]
	f.mem.mu.RUnlock()

	if err := os.MkdirAll(f.tableDir(tableID), 0o755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}
	return writeJSONAtomic(filepath.Join(f.tableDir(tableID), "table.json"), snap)
}

func (f *File) persistSeats(tableID string) error {
	seats, err := f.mem.SeatsForTable(tableID)
	if err != nil {
		return err
	}
	return writeJSONAtomic(filepath.Join(f.tableDir(tableID), "seats.json"), seats)
}

func (f *File) persistHand(h *engine.Hand) error {
	path := filepath.Join(f.tableDir(h.TableID), fmt.Sprintf("hand-%s.json", h.ID))
	return writeJSONAtomic(path, h)
}

func (f *File) CreateTable(t *table.Table) error {
	if err := f.mem.CreateTable(t); err != nil {
		return err
	}
	return f.persistTable(t.ID)
}

func (f *File) UpdateTable(t *table.Table) error {
	if err := f.mem.UpdateTable(t); err != nil {
		return err
	}
	return f.persistTable(t.ID)
}

func (f *File) GetTable(id string) (*table.Table, error) { return f.mem.GetTable(id) }
func (f *File) ListTables() ([]*table.Table, error)      { return f.mem.ListTables() }

func (f *File) CreateSeat(s *table.Seat) error {
	if err := f.mem.CreateSeat(s); err != nil {
		return err
	}
	return f.persistSeats(s.TableID)
}

func (f *File) UpdateSeat(s *table.Seat) error {
	if err := f.mem.UpdateSeat(s); err != nil {
		return err
	}
	return f.persistSeats(s.TableID)
}

func (f *File) GetSeat(id string) (*table.Seat, error) { return f.mem.GetSeat(id) }

func (f *File) SeatsForTable(tableID string) ([]*table.Seat, error) {
	return f.mem.SeatsForTable(tableID)
}

func (f *File) CreateHand(h *engine.Hand) error {
	if err := f.mem.CreateHand(h); err != nil {
		return err
	}
	if err := f.persistHand(h); err != nil {
		return err
	}
	return f.persistTable(h.TableID) // latest-hand pointer moved
}

func (f *File) UpdateHand(h *engine.Hand) error {
	if err := f.mem.UpdateHand(h); err != nil {
		return err
	}
	return f.persistHand(h)
}

func (f *File) GetHand(id string) (*engine.Hand, error) { return f.mem.GetHand(id) }

func (f *File) LatestHand(tableID string) (*engine.Hand, error) {
	return f.mem.LatestHand(tableID)
}

func (f *File) AppendAction(rec *engine.ActionRecord) error {
	if err := f.mem.AppendAction(rec); err != nil {
		return err
	}

	h, err := f.mem.GetHand(rec.HandID)
	if err != nil {
		return err
	}
	path := filepath.Join(f.tableDir(h.TableID), fmt.Sprintf("actions-%s.jsonl", rec.HandID))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append action record: %w", err)
	}
	return nil
}

func (f *File) ActionsForHand(handID string) ([]*engine.ActionRecord, error) {
	return f.mem.ActionsForHand(handID)
}
