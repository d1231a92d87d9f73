package web

import (
	"encoding/gob"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const flashSessionName = "flash"

func init() {
	gob.Register(map[string]string(nil))
}

// NewCookieStore returns a cookie session store keyed by the contents of
// keyFile. A new random key is generated and written to keyFile if it
// does not exist; an empty keyFile yields a key that lasts for the life
// of the process.
func NewCookieStore(keyFile string, maxAge time.Duration, secure bool) (*sessions.CookieStore, error) {
	var key []byte
	if keyFile != "" {
		var err error
		key, err = ioutil.ReadFile(keyFile)
		if os.IsNotExist(err) {
			key = securecookie.GenerateRandomKey(32)
			if err := ioutil.WriteFile(keyFile, key, 0600); err != nil {
				return nil, err
			}
			glog.Info("Generated new session key in ", keyFile)
		} else if err != nil {
			return nil, err
		}
	} else {
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(key)
	store.Options.Path = "/"
	store.Options.MaxAge = int(maxAge / time.Second)
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	return store, nil
}

// AddFlash queues a message to be shown by the next rendered view, as its
// "flash" variable. It must be called before the response is written.
func AddFlash(store sessions.Store, w http.ResponseWriter, r *http.Request, kind, message string) error {
	session, err := store.Get(r, flashSessionName)
	if err != nil && session == nil {
		return err
	}
	session.AddFlash(map[string]string{"kind": kind, "message": message})
	return session.Save(r, w)
}

// takeFlashes consumes every queued flash message.
func takeFlashes(store sessions.Store, w http.ResponseWriter, r *http.Request) []map[string]string {
	session, err := store.Get(r, flashSessionName)
	if err != nil {
		// an undecodable cookie is replaced by a fresh session
		glog.V(1).Infof("web: discarding flash session: %v", err)
	}
	if session == nil {
		return nil
	}

	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		glog.Error("web: saving flash session: ", err)
	}

	out := make([]map[string]string, 0, len(flashes))
	for _, f := range flashes {
		if m, ok := f.(map[string]string); ok {
			out = append(out, m)
		}
	}
	return out
}
