package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/GTsubekti/madrasah-defi/internal/logger"
	"github.com/GTsubekti/madrasah-defi/internal/model"
)

// FileStore 基于单个JSON文件的键值存储
// 文件内容为 键 -> 原始JSON值 的映射，申请集合是RequestKey下的一个JSON数组
type FileStore struct {
	path string
}

// NewFileStore 创建文件存储
// path为空时退化为无操作存储：Load返回空，Save直接丢弃
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load 读取申请集合
func (s *FileStore) Load() []model.WithdrawRequest {
	if s.path == "" {
		return []model.WithdrawRequest{}
	}

	raw, ok := s.readAll()[RequestKey]
	if !ok {
		return []model.WithdrawRequest{}
	}

	var records []model.WithdrawRequest
	if err := json.Unmarshal(raw, &records); err != nil {
		// 损坏数据按空集合处理
		logger.Warn("Ledger data under %s is not a request array, treating as empty: %v", RequestKey, err)
		return []model.WithdrawRequest{}
	}
	if records == nil {
		records = []model.WithdrawRequest{}
	}
	return records
}

// Save 整体覆盖写入申请集合
func (s *FileStore) Save(records []model.WithdrawRequest) {
	if s.path == "" {
		return
	}

	raw, err := json.Marshal(records)
	if err != nil {
		logger.Warn("Failed to serialize %d ledger records: %v", len(records), err)
		return
	}

	kv := s.readAll()
	kv[RequestKey] = raw

	data, err := json.Marshal(kv)
	if err != nil {
		logger.Warn("Failed to serialize ledger store: %v", err)
		return
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Warn("Failed to create ledger directory %s: %v", dir, err)
			return
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		logger.Warn("Failed to write ledger file %s: %v", s.path, err)
	}
}

// readAll 读取整个键值文件，任何失败都按空映射处理
func (s *FileStore) readAll() map[string]json.RawMessage {
	kv := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read ledger file %s: %v", s.path, err)
		}
		return kv
	}

	if err := json.Unmarshal(data, &kv); err != nil {
		logger.Warn("Ledger file %s is corrupt, treating as empty: %v", s.path, err)
		return make(map[string]json.RawMessage)
	}
	return kv
}
