package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/db"
)

func TestShutdownInOrder_DrainsRequestsBeforeClosingDatabase(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	db.DB = testDB
	t.Cleanup(func() { db.DB = nil })

	started := make(chan struct{})
	queryErr := make(chan error, 1)
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			time.Sleep(200 * time.Millisecond)

			var count int64
			queryErr <- testDB.Model(&model.Order{}).Count(&count).Error
			w.WriteHeader(http.StatusOK)
		}),
		ReadHeaderTimeout: time.Second,
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = server.Serve(listener) }()

	go func() {
		resp, err := http.Get("http://" + listener.Addr().String())
		if err == nil {
			resp.Body.Close()
		}
	}()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("request never reached the handler")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, shutdownInOrder(ctx, server))

	select {
	case err := <-queryErr:
		assert.NoError(t, err, "in-flight request still had a database")
	default:
		t.Fatal("shutdown returned before the in-flight request finished")
	}

	assert.Error(t, testDB.Exec("SELECT 1").Error, "database is closed after shutdown")
}
