package importdb

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/db"
	"go.mongodb.org/mongo-driver/bson"
)

// exported is a single emote document as written by mongoexport.
// Older documents have no creation time.
type exported struct {
	Name    string    `bson:"name"`
	Owner   int64     `bson:"owner"`
	URL     string    `bson:"url"`
	Created time.Time `bson:"created"`
}

// readExport reads emotes from mongoexport output, either one document per line or a single array (--jsonArray).
func readExport(r io.Reader) ([]db.Emote, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var docs []json.RawMessage
	if first == '[' {
		err = json.NewDecoder(br).Decode(&docs)
		if err != nil {
			return nil, errors.Wrap(err, "decoding array")
		}
	} else {
		s := bufio.NewScanner(br)
		s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for s.Scan() {
			line := bytes.TrimSpace(s.Bytes())
			if len(line) == 0 {
				continue
			}
			docs = append(docs, append(json.RawMessage(nil), line...))
		}
		if err := s.Err(); err != nil {
			return nil, errors.Wrap(err, "reading lines")
		}
	}

	now := time.Now().UTC()
	es := make([]db.Emote, 0, len(docs))
	for i, doc := range docs {
		var e exported
		err = bson.UnmarshalExtJSON(doc, false, &e)
		if err != nil {
			return nil, errors.Wrapf(err, "document %d", i)
		}
		if e.Name == "" {
			return nil, errors.Errorf("document %d has no name", i)
		}

		if e.Created.IsZero() {
			e.Created = now
		}

		es = append(es, db.Emote{
			Name:    e.Name,
			Owner:   discord.UserID(e.Owner),
			URL:     e.URL,
			Created: e.Created,
		})
	}
	return es, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b, br.UnreadByte()
	}
}
