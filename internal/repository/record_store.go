package repository

import (
	"context"
	"sync"
)

// ドキュメントのキー (ファイル backend では <data_dir>/<key>.json)
const (
	KeySessions    = "sessions"
	KeyWords       = "words"
	KeyWordHistory = "word_history"
)

// RecordStore はキー → JSONドキュメントの永続化層です。
// 書き込みは常にドキュメント全体の置き換えで、部分更新はありません。
type RecordStore interface {
	// Load は key のドキュメントを dst にデコードします。
	// ドキュメントが存在しない場合は (false, nil) を返します。
	Load(ctx context.Context, key string, dst any) (bool, error)
	// Save は doc をシリアライズして key のドキュメントを丸ごと置き換えます。
	Save(ctx context.Context, key string, doc any) error
	// Clear は key のドキュメントを削除します。存在しなければ何もしません。
	Clear(ctx context.Context, key string) error
	// Ping は保存先が利用可能か確認します (ヘルスチェック用)
	Ping(ctx context.Context) error
	// Lock は key 単位の排他ロックを取得し、解放関数を返します。
	// load → 変更 → save の間保持すること。プロセス内でのみ有効です。
	Lock(key string) (unlock func())
}

// KeyedMutex はキーごとの sync.Mutex を遅延生成して保持します。
// キーの種類は少数なので解放はしません。
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
