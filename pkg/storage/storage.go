package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/kurin/blazer/b2"
)

// File представляет файл работы в памяти
type File struct {
	Name    string
	Content []byte
}

// ObjectClient — минимальный интерфейс бакета, который нужен хранилищу.
// Реальная реализация — Backblaze B2, в тестах подменяется на in-memory.
type ObjectClient interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Put(ctx context.Context, key string, content []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Storage представляет объектное хранилище сданных работ
type Storage struct {
	client ObjectClient
}

// NewStorage создает хранилище поверх готового клиента
func NewStorage(client ObjectClient) *Storage {
	return &Storage{client: client}
}

// NewB2Storage создает хранилище поверх бакета Backblaze B2
func NewB2Storage(ctx context.Context, accountID, appKey, bucketName string) (*Storage, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Storage{client: &b2Client{bucket: bucket}}, nil
}

// UploadAllOrNone заменяет содержимое префикса целиком: сначала пишет все
// новые файлы и только после того, как каждая запись прошла успешно,
// удаляет старые объекты, не вошедшие в новый набор. Любая ошибка до
// удаления оставляет старые файлы нетронутыми. Порядок
// «сначала новые, потом удаление старых» гарантирует, что под префиксом
// никогда не бывает нуля файлов у уже сданной работы.
func (s *Storage) UploadAllOrNone(ctx context.Context, files []File, prefix string) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to upload")
	}

	newKeys := make(map[string]bool, len(files))
	for _, file := range files {
		newKeys[prefix+file.Name] = true
	}

	// Запоминаем старые объекты до записи новых
	oldKeys, err := s.client.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list existing objects under %q: %w", prefix, err)
	}

	for _, file := range files {
		key := prefix + file.Name
		if err := s.client.Put(ctx, key, file.Content, ContentTypeFor(file.Name)); err != nil {
			return fmt.Errorf("failed to upload %q: %w", key, err)
		}
	}

	// Всё записано — убираем файлы прошлой сдачи
	for _, key := range oldKeys {
		if newKeys[key] {
			continue
		}
		if err := s.client.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete stale object %q: %w", key, err)
		}
		log.Printf("Deleted stale object %s", key)
	}

	return nil
}

// ListByPrefix возвращает все файлы под префиксом. Пустой срез означает
// «файлов нет», ошибка — «не удалось выяснить»: вызывающий код различает
// эти случаи.
func (s *Storage) ListByPrefix(ctx context.Context, prefix string) ([]File, error) {
	keys, err := s.client.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects under %q: %w", prefix, err)
	}

	files := make([]File, 0, len(keys))
	for _, key := range keys {
		content, err := s.client.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read object %q: %w", key, err)
		}
		files = append(files, File{
			Name:    key[strings.LastIndex(key, "/")+1:],
			Content: content,
		})
	}

	return files, nil
}

// ContentTypeFor определяет content-type по расширению файла
func ContentTypeFor(filename string) string {
	if strings.ToLower(path.Ext(filename)) == ".pdf" {
		return "application/pdf"
	}
	return "application/octet-stream"
}

// b2Client реализует ObjectClient поверх бакета Backblaze B2
type b2Client struct {
	bucket *b2.Bucket
}

func (c *b2Client) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	it := c.bucket.List(ctx, b2.ListPrefix(prefix))
	for it.Next() {
		keys = append(keys, it.Object().Name())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *b2Client) Put(ctx context.Context, key string, content []byte, contentType string) error {
	w := c.bucket.Object(key).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))
	if _, err := io.Copy(w, bytes.NewReader(content)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (c *b2Client) Get(ctx context.Context, key string) ([]byte, error) {
	r := c.bucket.Object(key).NewReader(ctx)
	defer r.Close()
	return io.ReadAll(r)
}

func (c *b2Client) Delete(ctx context.Context, key string) error {
	return c.bucket.Object(key).Delete(ctx)
}
