package participants

import (
	"context"

	"github.com/nosij-playz/Tantra-backend/models"
	"github.com/nosij-playz/Tantra-backend/store"
)

// Resolve maps a registration document to its participant record.
// Registrations accumulated under several historical shapes; they are tried
// in a fixed order and the first hit wins, with no merging:
//
//  1. an inline "participant" object is returned verbatim;
//  2. an id under participant_id, user_id or uid is looked up in the
//     participants collection, then the users collection;
//  3. an email under participant_email, email or user_email is matched
//     (limit 1) against participants, then users.
//
// A registration that resolves to nothing returns (nil, nil); absent
// participants are expected in partial data and the caller skips the row.
func Resolve(ctx context.Context, st store.Store, reg map[string]any) (map[string]any, error) {
	if len(reg) == 0 {
		return nil, nil
	}

	if inline, ok := reg["participant"].(map[string]any); ok && len(inline) > 0 {
		return inline, nil
	}

	if pid := models.StringField(reg, "participant_id", "user_id", "uid"); pid != "" {
		doc, err := st.Get(ctx, "participants", pid)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			return doc.Data, nil
		}
		doc, err = st.Get(ctx, "users", pid)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			return doc.Data, nil
		}
	}

	if email := models.StringField(reg, "participant_email", "email", "user_email"); email != "" {
		docs, err := st.Where(ctx, "participants", "email", email, 1)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			return docs[0].Data, nil
		}
		docs, err = st.Where(ctx, "users", "email", email, 1)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			return docs[0].Data, nil
		}
	}

	return nil, nil
}
