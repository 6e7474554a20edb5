package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBinary_Deterministic(t *testing.T) {
	e := SupplyChainEvent{
		ID:               3,
		PharmaceuticalID: 2,
		EventType:        EventProduction,
		Location:         "Plant <A> & Co",
		Date:             1700000000000000000,
		Participant:      "bob",
	}

	first, err := e.MarshalBinary()
	require.NoError(t, err)
	second, err := e.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t,
		`{"id":3,"pharmaceutical_id":2,"event_type":"Production","location":"Plant <A> & Co","date":1700000000000000000,"participant":"bob"}`,
		string(first))
}

func TestMarshalBinary_LargeIntegersSurvive(t *testing.T) {
	p := Pharmaceutical{ID: 1<<63 + 5, UserID: 1, Name: "n", Manufacturer: "m", BatchNumber: "b", ExpiryDate: ^uint64(0)}

	data, err := p.MarshalBinary()
	require.NoError(t, err)

	var got Pharmaceutical
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, p, got)
}

func TestMarshalBinary_TooLarge(t *testing.T) {
	u := User{ID: 1, Username: strings.Repeat("x", MaxUserSize), Role: RoleAdmin}

	_, err := u.MarshalBinary()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestMarshalBinary_FitsAtLimit(t *testing.T) {
	base, err := Reward{ID: 1, Participant: "", Points: 10, RewardType: RewardOther}.MarshalBinary()
	require.NoError(t, err)

	r := Reward{ID: 1, Participant: strings.Repeat("p", MaxRewardSize-len(base)), Points: 10, RewardType: RewardOther}
	data, err := r.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, MaxRewardSize)
}

func TestUnmarshalBinary_RejectsOversize(t *testing.T) {
	var u User
	err := u.UnmarshalBinary([]byte(strings.Repeat(" ", MaxUserSize+1)))
	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.NotErrorIs(t, err, ErrRecordTooLarge)
}

func TestUnmarshalBinary_RejectsUnknownFields(t *testing.T) {
	var r Reward
	err := r.UnmarshalBinary([]byte(`{"id":1,"participant":"a","points":1,"reward_type":"Other","bonus":2}`))
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestMaxSize(t *testing.T) {
	assert.Equal(t, 512, User{}.MaxSize())
	assert.Equal(t, 1024, Pharmaceutical{}.MaxSize())
	assert.Equal(t, 1024, SupplyChainEvent{}.MaxSize())
	assert.Equal(t, 512, Reward{}.MaxSize())
}
