package state

import "testing"

func TestMemoryManagerStates(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(1)

	if m.GetState(userID) != StateIdle {
		t.Fatalf("fresh user state = %q", m.GetState(userID))
	}
	if m.InProgress(userID) {
		t.Fatal("fresh user reported in progress")
	}

	m.SetState(userID, State("awaiting_city"))
	if m.GetState(userID) != State("awaiting_city") {
		t.Fatalf("state = %q", m.GetState(userID))
	}
	if !m.InProgress(userID) {
		t.Fatal("user with active state not in progress")
	}

	m.Clear(userID)
	if m.GetState(userID) != StateIdle {
		t.Fatalf("state after Clear = %q", m.GetState(userID))
	}
}

func TestMemoryManagerTempData(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(2)

	if _, ok := m.GetTemp(userID, "city"); ok {
		t.Fatal("temp value on fresh session")
	}

	m.SetTemp(userID, "city", "Тула")
	m.SetTemp(userID, "attempts", 3)

	if v, ok := m.GetTempString(userID, "city"); !ok || v != "Тула" {
		t.Fatalf("GetTempString = %q, %v", v, ok)
	}
	if _, ok := m.GetTempString(userID, "attempts"); ok {
		t.Fatal("non-string temp value returned as string")
	}

	m.Clear(userID)
	if _, ok := m.GetTemp(userID, "city"); ok {
		t.Fatal("temp data survived Clear")
	}
}

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, State("awaiting_name"))
	m.SetTemp(1, "city", "Тула")

	if m.GetState(2) != StateIdle {
		t.Fatalf("other user state = %q", m.GetState(2))
	}
	if _, ok := m.GetTemp(2, "city"); ok {
		t.Fatal("temp data leaked between users")
	}
}
