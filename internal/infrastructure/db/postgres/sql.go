package postgres

const insertActivitySQL = `
INSERT INTO social_activity (
  id, at, event_type, event_key, event_id, event_title, city, status,
  quantity, attendee_alias, raw_payload
) VALUES (
  $1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''),
  $9, $10, $11::json
)
ON CONFLICT (id) DO NOTHING
`

// One statement per merge: the row lock taken by ON CONFLICT serializes
// concurrent deliveries for the same key. Counts are clamped to
// [0, int4 max]; metadata is only filled where the row has none.
const mergeAggregateSQL = `
INSERT INTO social_event_aggregates AS a (
  event_key, event_id, event_title, city, going_count, pending_count, updated_at
) VALUES (
  $1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''),
  GREATEST(LEAST($5::bigint, 2147483647), 0),
  GREATEST(LEAST($6::bigint, 2147483647), 0),
  $7
)
ON CONFLICT (event_key) DO UPDATE SET
  going_count   = GREATEST(LEAST(a.going_count::bigint + $5::bigint, 2147483647), 0),
  pending_count = GREATEST(LEAST(a.pending_count::bigint + $6::bigint, 2147483647), 0),
  event_id      = COALESCE(NULLIF(a.event_id, ''), EXCLUDED.event_id),
  event_title   = COALESCE(NULLIF(a.event_title, ''), EXCLUDED.event_title),
  city          = COALESCE(NULLIF(a.city, ''), EXCLUDED.city),
  updated_at    = EXCLUDED.updated_at
RETURNING event_key, COALESCE(event_id, ''), COALESCE(event_title, ''), COALESCE(city, ''),
          going_count, pending_count, updated_at
`

const listAggregatesSQL = `
SELECT event_key, COALESCE(event_id, ''), COALESCE(event_title, ''), COALESCE(city, ''),
       going_count, pending_count, updated_at
FROM social_event_aggregates
ORDER BY going_count DESC, updated_at DESC, event_key ASC
`

const recentActivitySQL = `
SELECT id, at, event_type, COALESCE(event_key, ''), COALESCE(event_id, ''),
       COALESCE(event_title, ''), COALESCE(city, ''), COALESCE(status, ''),
       quantity, attendee_alias, raw_payload
FROM social_activity
ORDER BY at DESC, id ASC
LIMIT $1
`
