package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIdentity_Anonymous(t *testing.T) {
	id := Anonymous("sess-1")

	assert.False(t, id.IsAuthenticated())
	assert.False(t, id.IsZero())

	sessionID, ok := id.SessionID()
	assert.True(t, ok)
	assert.Equal(t, "sess-1", sessionID)

	_, ok = id.UserID()
	assert.False(t, ok)
	assert.Equal(t, "session:sess-1", id.String())
}

func TestIdentity_Authenticated(t *testing.T) {
	id := Authenticated(42)

	assert.True(t, id.IsAuthenticated())

	userID, ok := id.UserID()
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)

	_, ok = id.SessionID()
	assert.False(t, ok)
	assert.Equal(t, map[string]interface{}{"user_id": uint(42)}, id.LogFields())
}

func TestIdentity_Zero(t *testing.T) {
	var id Identity
	assert.True(t, id.IsZero())
	assert.Equal(t, "none", id.String())
}

func TestOrder_OwnedBy(t *testing.T) {
	session := "sess-1"
	userID := uint(7)

	anonOrder := &Order{SessionID: &session}
	userOrder := &Order{UserID: &userID}

	assert.True(t, anonOrder.OwnedBy(Anonymous("sess-1")))
	assert.False(t, anonOrder.OwnedBy(Anonymous("sess-2")))
	assert.False(t, anonOrder.OwnedBy(Authenticated(7)))
	assert.True(t, userOrder.OwnedBy(Authenticated(7)))
	assert.False(t, userOrder.OwnedBy(Authenticated(8)))
	assert.False(t, userOrder.OwnedBy(Anonymous("sess-1")))
	assert.False(t, userOrder.OwnedBy(Identity{}))
}

func TestProduct_MainImageURL(t *testing.T) {
	tests := []struct {
		name   string
		images []ProductImage
		want   string
	}{
		{name: "no images", want: ""},
		{
			name:   "first image when none is main",
			images: []ProductImage{{URL: "/a.jpg"}, {URL: "/b.jpg"}},
			want:   "/a.jpg",
		},
		{
			name:   "main image wins",
			images: []ProductImage{{URL: "/a.jpg"}, {URL: "/b.jpg", IsMain: true}},
			want:   "/b.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Images: tt.images}
			assert.Equal(t, tt.want, p.MainImageURL())
		})
	}
}

func TestOrder_Aggregates(t *testing.T) {
	order := &Order{Items: []OrderItem{
		{ProductImage: "", Quantity: 2, Price: decimal.NewFromInt(1000)},
		{ProductImage: "/second.jpg", Quantity: 1, Price: decimal.NewFromInt(500)},
		{ProductImage: "/third.jpg", Quantity: 3, Price: decimal.NewFromInt(10)},
	}}

	assert.Equal(t, 6, order.ItemCount())
	assert.Equal(t, "/second.jpg", order.FirstItemImage())
	assert.True(t, order.Items[0].LineTotal().Equal(decimal.NewFromInt(2000)))
}

func TestCartItem_SameLine(t *testing.T) {
	a := &CartItem{ProductID: 1, ColorID: 2, SizeID: 3}
	assert.True(t, a.SameLine(&CartItem{ProductID: 1, ColorID: 2, SizeID: 3, Quantity: 9}))
	assert.False(t, a.SameLine(&CartItem{ProductID: 1, ColorID: 2, SizeID: 4}))
}
