package storage

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClient — ObjectClient в памяти с управляемыми отказами
type memClient struct {
	objects  map[string][]byte
	failPut  string // ключ, запись которого падает
	failList bool
}

func newMemClient() *memClient {
	return &memClient{objects: make(map[string][]byte)}
}

func (c *memClient) List(_ context.Context, prefix string) ([]string, error) {
	if c.failList {
		return nil, errors.New("list failed")
	}
	var keys []string
	for key := range c.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (c *memClient) Put(_ context.Context, key string, content []byte, _ string) error {
	if key == c.failPut {
		return errors.New("put failed")
	}
	c.objects[key] = content
	return nil
}

func (c *memClient) Get(_ context.Context, key string) ([]byte, error) {
	content, ok := c.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return content, nil
}

func (c *memClient) Delete(_ context.Context, key string) error {
	delete(c.objects, key)
	return nil
}

func TestUploadAllOrNoneReplacesPrefix(t *testing.T) {
	client := newMemClient()
	client.objects["course/topic/homework/student/old.pdf"] = []byte("old")
	store := NewStorage(client)

	err := store.UploadAllOrNone(context.Background(), []File{
		{Name: "solution.pdf", Content: []byte("new")},
		{Name: "extra.pdf", Content: []byte("more")},
	}, "course/topic/homework/student/")
	require.NoError(t, err)

	files, err := store.ListByPrefix(context.Background(), "course/topic/homework/student/")
	require.NoError(t, err)
	require.Len(t, files, 2)

	names := []string{files[0].Name, files[1].Name}
	sort.Strings(names)
	assert.Equal(t, []string{"extra.pdf", "solution.pdf"}, names)
}

func TestUploadAllOrNoneKeepsOldFilesOnWriteFailure(t *testing.T) {
	client := newMemClient()
	client.objects["prefix/old.pdf"] = []byte("old")
	client.failPut = "prefix/second.pdf"
	store := NewStorage(client)

	err := store.UploadAllOrNone(context.Background(), []File{
		{Name: "first.pdf", Content: []byte("a")},
		{Name: "second.pdf", Content: []byte("b")},
	}, "prefix/")
	require.Error(t, err)

	// Старый файл остался: удаление не выполняется, пока не записан
	// весь новый набор
	files, err := store.ListByPrefix(context.Background(), "prefix/")
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.Name)
	}
	assert.Contains(t, names, "old.pdf")
}

func TestUploadAllOrNoneKeepsOldFilesOnListFailure(t *testing.T) {
	client := newMemClient()
	client.objects["prefix/old.pdf"] = []byte("old")
	client.failList = true
	store := NewStorage(client)

	err := store.UploadAllOrNone(context.Background(), []File{
		{Name: "new.pdf", Content: []byte("a")},
	}, "prefix/")
	require.Error(t, err)

	client.failList = false
	files, err := store.ListByPrefix(context.Background(), "prefix/")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "old.pdf", files[0].Name)
	assert.Equal(t, []byte("old"), files[0].Content)
}

func TestUploadAllOrNoneRejectsEmptySet(t *testing.T) {
	store := NewStorage(newMemClient())
	err := store.UploadAllOrNone(context.Background(), nil, "prefix/")
	require.Error(t, err)
}

func TestListByPrefixDistinguishesEmptyFromFailure(t *testing.T) {
	client := newMemClient()
	store := NewStorage(client)

	files, err := store.ListByPrefix(context.Background(), "nothing/")
	require.NoError(t, err)
	assert.Empty(t, files)

	client.failList = true
	_, err = store.ListByPrefix(context.Background(), "nothing/")
	require.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("solution.PDF"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("main.py"))
}
