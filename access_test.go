package recall

import "testing"

func TestGameAccess(t *testing.T) {
	owner := int64(7)
	tests := []struct {
		name   string
		game   *Game
		userID int64
		want   Access
		usable bool
	}{
		{name: "nil game", game: nil, userID: 7, want: AccessDenied},
		{name: "system game", game: &Game{}, userID: 7, want: AccessShared, usable: true},
		{name: "own game", game: &Game{OwnerID: &owner}, userID: 7, want: AccessOwned, usable: true},
		{name: "foreign game", game: &Game{OwnerID: &owner}, userID: 8, want: AccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GameAccess(tt.game, tt.userID)
			if got != tt.want {
				t.Errorf("GameAccess() = %v, want %v", got, tt.want)
			}
			if got.Usable() != tt.usable {
				t.Errorf("Usable() = %v, want %v", got.Usable(), tt.usable)
			}
		})
	}
}
