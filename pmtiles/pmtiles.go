package pmtiles

import (
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/tiles"
	"github.com/protomaps/go-pmtiles/pmtiles"
)

// maximum size of header plus root directory
const rootLength = 16384

type offsetLen struct {
	offset uint64
	length uint32
}

// Metadata describes the tileset.  Bounds are in longitude, latitude.
type Metadata struct {
	Name        string
	Description string
	Attribution string
	Format      string
	MinZoom     uint8
	MaxZoom     uint8
	Bounds      affine.Bounds
}

// PMTilesWriter collects tiles in a temporary file and writes the archive
// on Close.  It is safe for concurrent use.
type PMTilesWriter struct {
	mu        sync.Mutex
	path      string
	tileData  *os.File
	hashFunc  hash.Hash
	offsetMap map[string]offsetLen
	entries   []pmtiles.EntryV3
	header    pmtiles.HeaderV3
	metadata  map[string]interface{}
}

func NewPMTilesWriter(path string) (*PMTilesWriter, error) {
	if filepath.Ext(path) != ".pmtiles" {
		return nil, fmt.Errorf("path must end in .pmtiles")
	}

	tmpFile, err := os.CreateTemp("", "geotiler-tiledata")
	if err != nil {
		return nil, fmt.Errorf("error creating temp file: %w", err)
	}

	return &PMTilesWriter{
		path:      path,
		tileData:  tmpFile,
		hashFunc:  fnv.New128a(),
		offsetMap: make(map[string]offsetLen),
		entries:   make([]pmtiles.EntryV3, 0),
		header: pmtiles.HeaderV3{
			InternalCompression: pmtiles.Gzip,
			TileCompression:     pmtiles.NoCompression,
			TileType:            pmtiles.Png,
		},
		metadata: make(map[string]interface{}),
	}, nil
}

func toE7(v float64) int32 {
	return int32(math.Round(v * 10_000_000))
}

func tileType(format string) pmtiles.TileType {
	switch format {
	case "", "png":
		return pmtiles.Png
	case "jpg", "jpeg":
		return pmtiles.Jpeg
	case "webp":
		return pmtiles.Webp
	default:
		return pmtiles.UnknownTileType
	}
}

func (w *PMTilesWriter) WriteMetadata(metadata Metadata) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tileData == nil {
		return fmt.Errorf("cannot write to closed pmtiles archive")
	}

	format := metadata.Format
	if format == "" {
		format = "png"
	}
	bounds := metadata.Bounds

	w.header.TileType = tileType(format)
	w.header.MinZoom = metadata.MinZoom
	w.header.MaxZoom = metadata.MaxZoom
	w.header.MinLonE7 = toE7(bounds.Xmin)
	w.header.MinLatE7 = toE7(bounds.Ymin)
	w.header.MaxLonE7 = toE7(bounds.Xmax)
	w.header.MaxLatE7 = toE7(bounds.Ymax)
	w.header.CenterZoom = metadata.MinZoom
	w.header.CenterLonE7 = toE7((bounds.Xmin + bounds.Xmax) / 2)
	w.header.CenterLatE7 = toE7((bounds.Ymin + bounds.Ymax) / 2)

	w.metadata["name"] = metadata.Name
	if metadata.Description != "" {
		w.metadata["description"] = metadata.Description
	}
	if metadata.Attribution != "" {
		w.metadata["attribution"] = metadata.Attribution
	}
	w.metadata["type"] = "overlay"
	w.metadata["format"] = format
	w.metadata["version"] = "1.0.0"

	return nil
}

// WriteTile stores data for tile.  Identical tile data is stored only once.
// Tiles use XYZ numbering.
func (w *PMTilesWriter) WriteTile(tile *tiles.TileID, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tileData == nil {
		return fmt.Errorf("cannot write to closed pmtiles archive")
	}
	if !tile.Valid() {
		return fmt.Errorf("tile %v is not a valid tile", tile)
	}

	w.hashFunc.Reset()
	w.hashFunc.Write(data)
	sum := string(w.hashFunc.Sum(nil))

	found, ok := w.offsetMap[sum]
	if !ok {
		offset, err := w.tileData.Seek(0, io.SeekEnd)
		if err != nil {
			return err
		}
		n, err := w.tileData.Write(data)
		if err != nil {
			return fmt.Errorf("could not write tile %v to pmtiles: %w", tile, err)
		}
		found = offsetLen{offset: uint64(offset), length: uint32(n)}
		w.offsetMap[sum] = found
	}

	w.entries = append(w.entries, pmtiles.EntryV3{
		TileID:    pmtiles.ZxyToID(tile.Zoom, tile.X, tile.Y),
		Offset:    found.offset,
		Length:    found.length,
		RunLength: 1,
	})

	return nil
}

// compactEntries sorts entries by tile ID, drops duplicate tile IDs (last
// write wins), and collapses consecutive tiles with identical data into runs.
func compactEntries(entries []pmtiles.EntryV3) []pmtiles.EntryV3 {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TileID < entries[j].TileID
	})

	out := make([]pmtiles.EntryV3, 0, len(entries))
	for _, entry := range entries {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.RunLength == 1 && last.TileID == entry.TileID {
				*last = entry
				continue
			}
			if last.Offset == entry.Offset && last.Length == entry.Length &&
				last.TileID+uint64(last.RunLength) == entry.TileID {
				last.RunLength++
				continue
			}
			if last.TileID+uint64(last.RunLength)-1 == entry.TileID {
				// duplicate of the final tile in a run
				if last.Offset != entry.Offset || last.Length != entry.Length {
					last.RunLength--
					out = append(out, entry)
				}
				continue
			}
		}
		out = append(out, entry)
	}
	return out
}

func optimizeDirectories(entries []pmtiles.EntryV3, targetRootLen int) ([]byte, []byte, int) {
	if len(entries) < 16384 {
		rootBytes := pmtiles.SerializeEntries(entries, pmtiles.Gzip)
		if len(rootBytes) <= targetRootLen {
			return rootBytes, make([]byte, 0), 0
		}
	}

	// root directory holds leaf pointers only; grow leaves until it fits
	leafSize := float32(len(entries)) / 3500
	if leafSize < 4096 {
		leafSize = 4096
	}

	for {
		rootBytes, leavesBytes, numLeaves := buildRootsLeaves(entries, int(leafSize))
		if len(rootBytes) <= targetRootLen {
			return rootBytes, leavesBytes, numLeaves
		}
		leafSize *= 1.2
	}
}

func buildRootsLeaves(entries []pmtiles.EntryV3, leafSize int) ([]byte, []byte, int) {
	rootEntries := make([]pmtiles.EntryV3, 0)
	leavesBytes := make([]byte, 0)
	numLeaves := 0

	for i := 0; i < len(entries); i += leafSize {
		numLeaves++
		end := min(i+leafSize, len(entries))
		serialized := pmtiles.SerializeEntries(entries[i:end], pmtiles.Gzip)

		rootEntries = append(rootEntries, pmtiles.EntryV3{
			TileID:    entries[i].TileID,
			Offset:    uint64(len(leavesBytes)),
			Length:    uint32(len(serialized)),
			RunLength: 0,
		})
		leavesBytes = append(leavesBytes, serialized...)
	}

	return pmtiles.SerializeEntries(rootEntries, pmtiles.Gzip), leavesBytes, numLeaves
}

// Close writes the header, directories, metadata and tile data to the
// archive and removes the temporary tile data.
func (w *PMTilesWriter) Close() (err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tileData == nil {
		return nil
	}
	tileData := w.tileData
	w.tileData = nil
	defer func() {
		tileData.Close()
		os.Remove(tileData.Name())
	}()

	entries := compactEntries(w.entries)
	w.entries = nil

	var addressed uint64
	for _, entry := range entries {
		addressed += uint64(entry.RunLength)
	}

	rootBytes, leavesBytes, _ := optimizeDirectories(entries, rootLength-pmtiles.HeaderV3LenBytes)

	metadataBytes, err := pmtiles.SerializeMetadata(w.metadata, pmtiles.Gzip)
	if err != nil {
		return fmt.Errorf("error serializing pmtiles metadata: %w", err)
	}

	dataLength, err := tileData.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	header := w.header
	header.AddressedTilesCount = addressed
	header.TileEntriesCount = uint64(len(entries))
	header.TileContentsCount = uint64(len(w.offsetMap))
	header.Clustered = false
	header.RootOffset = pmtiles.HeaderV3LenBytes
	header.RootLength = uint64(len(rootBytes))
	header.MetadataOffset = header.RootOffset + header.RootLength
	header.MetadataLength = uint64(len(metadataBytes))
	header.LeafDirectoryOffset = header.MetadataOffset + header.MetadataLength
	header.LeafDirectoryLength = uint64(len(leavesBytes))
	header.TileDataOffset = header.LeafDirectoryOffset + header.LeafDirectoryLength
	header.TileDataLength = uint64(dataLength)

	// always overwrite
	outFile, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("error creating pmtiles output file: %w", err)
	}
	defer func() {
		if closeErr := outFile.Close(); err == nil {
			err = closeErr
		}
	}()

	sections := []struct {
		name string
		data []byte
	}{
		{"header", pmtiles.SerializeHeader(header)},
		{"root directory", rootBytes},
		{"metadata", metadataBytes},
		{"leaf directory", leavesBytes},
	}
	for _, section := range sections {
		if _, err = outFile.Write(section.data); err != nil {
			return fmt.Errorf("error writing pmtiles %s: %w", section.name, err)
		}
	}

	if _, err = tileData.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking to start of tile data: %w", err)
	}
	if _, err = io.Copy(outFile, tileData); err != nil {
		return fmt.Errorf("error copying tile data to pmtiles: %w", err)
	}

	return nil
}
