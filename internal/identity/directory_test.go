package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectoryClient struct {
	users []slack.User
	err   error
}

func (f *fakeDirectoryClient) GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error) {
	return f.users, f.err
}

func member(id, name, realName, displayName, email string) slack.User {
	u := slack.User{ID: id, Name: name, RealName: realName}
	u.Profile.DisplayName = displayName
	u.Profile.Email = email
	return u
}

func testClient() *fakeDirectoryClient {
	bot := member("B1", "buildbot", "Build Bot", "", "")
	bot.IsBot = true
	gone := member("U9", "ghost", "Former Employee", "", "ghost@example.com")
	gone.Deleted = true

	return &fakeDirectoryClient{users: []slack.User{
		member("U1", "adam", "Adam Svensson", "adams", "adam@example.com"),
		member("U2", "erik", "Erik Almqvist", "", "erik@example.com"),
		bot,
		gone,
		member(slackbotUserID, "slackbot", "Slackbot", "", ""),
	}}
}

func TestListUsersFiltersBotsDeletedAndSlackbot(t *testing.T) {
	d := NewDirectory(testClient(), nil)

	users, err := d.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "U1", users[0].ID)
	assert.Equal(t, "U2", users[1].ID)
	// display name falls back to username
	assert.Equal(t, "erik", users[1].DisplayName)
}

func TestListUsersError(t *testing.T) {
	d := NewDirectory(&fakeDirectoryClient{err: errors.New("invalid_auth")}, nil)
	_, err := d.ListUsers(context.Background())
	require.Error(t, err)
}

func TestFindByEmail(t *testing.T) {
	d := NewDirectory(testClient(), nil)

	u, err := d.FindByEmail(context.Background(), "erik@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "U2", u.ID)

	u, err = d.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	// deleted accounts are not candidates even with matching email
	u, err = d.FindByEmail(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestFindByName(t *testing.T) {
	d := NewDirectory(testClient(), nil)

	t.Run("exact match is case-insensitive", func(t *testing.T) {
		u, err := d.FindByName(context.Background(), "ADAM")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "U1", u.ID)
	})

	t.Run("exact beats substring", func(t *testing.T) {
		// "adam" matches U1's username exactly and U1's display name
		// "adams" as a substring; the exact match must win.
		u, err := d.FindByName(context.Background(), "adam")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "U1", u.ID)
	})

	t.Run("substring fallback", func(t *testing.T) {
		u, err := d.FindByName(context.Background(), "almqvist")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "U2", u.ID)
	})

	t.Run("no match", func(t *testing.T) {
		u, err := d.FindByName(context.Background(), "zzz")
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}

func TestSuggestedMapping(t *testing.T) {
	d := NewDirectory(testClient(), nil)

	mapping, err := d.SuggestedMapping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"adam": "U1", "erik": "U2"}, mapping)
}
