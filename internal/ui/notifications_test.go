package ui

import "testing"

type sentNote struct{ title, message, icon string }

func newTestNotifier(enabled bool, icon []byte) (*NotificationManager, *[]sentNote) {
	var sent []sentNote
	n := NewNotificationManager(enabled, "keymaster", icon)
	n.notify = func(title, message, icon string) error {
		sent = append(sent, sentNote{title, message, icon})
		return nil
	}
	return n, &sent
}

func TestShowNotificationRespectsSetting(t *testing.T) {
	n, sent := newTestNotifier(false, nil)
	n.ShowNotification("Terminal", "launched")
	if len(*sent) != 0 {
		t.Errorf("notification shown while disabled: %v", *sent)
	}

	n, sent = newTestNotifier(true, nil)
	n.ShowNotification("Terminal", "launched")
	if len(*sent) != 1 || (*sent)[0].title != "Terminal" {
		t.Errorf("sent = %v", *sent)
	}
}

func TestAdminErrorsAlwaysShown(t *testing.T) {
	n, sent := newTestNotifier(false, nil)
	n.ShowAdminNotification(LevelWarn, "Reload", "duplicate binding")
	n.ShowAdminNotification(LevelError, "Reload failed", "bad yaml")

	if len(*sent) != 1 {
		t.Fatalf("sent %d notifications, want only the error", len(*sent))
	}
	if (*sent)[0].title != "keymaster: Reload failed" {
		t.Errorf("title = %q", (*sent)[0].title)
	}
}

func TestNotificationIconWrittenOnce(t *testing.T) {
	n, sent := newTestNotifier(true, []byte("\x89PNG fake"))
	n.ShowNotification("a", "b")
	n.ShowNotification("c", "d")

	if (*sent)[0].icon == "" || (*sent)[0].icon != (*sent)[1].icon {
		t.Errorf("icon paths = %q, %q", (*sent)[0].icon, (*sent)[1].icon)
	}
}
