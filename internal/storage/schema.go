// ABOUTME: SQLite schema for conversations, documents, and chunk embeddings
// ABOUTME: Creates all tables and indexes for local persistence
package storage

// Schema contains all SQL statements for database initialization
const Schema = `
-- Conversations (one row per conversation identity)
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    document_id TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Turns (ordered messages within a conversation)
CREATE TABLE IF NOT EXISTS turns (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Documents (immutable after ingestion; tier never recomputed)
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    token_count INTEGER NOT NULL,
    tier TEXT NOT NULL,
    full_text TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Chunks (indexed-tier documents only; vector stored as BLOB)
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    content TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for identity-scoped access
CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns(conversation_id, seq);
CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id);
`
