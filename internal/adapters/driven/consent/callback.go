package consent

import (
	"fmt"
	"html"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// tokenResult carries the outcome of one consent redirect.
type tokenResult struct {
	accessToken string
	expiresIn   int
}

// CallbackServer receives the consent redirect on localhost.
//
// The implicit grant returns the token in the URL fragment, which browsers
// never send to the server. The /callback page therefore serves a relay
// script that reads location.hash in the browser and forwards it to /token
// as query parameters.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	tokenChan     chan tokenResult
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server. The expectedState is used to
// validate that the redirect matches the request we issued.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		tokenChan:     make(chan tokenResult, 1),
		errChan:       make(chan error, 1),
	}
}

// Start starts the callback server on the configured port.
// If port is 0, a random available port is chosen.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)
	mux.HandleFunc("/token", s.handleToken)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// handleCallback serves the fragment relay page. Errors from the provider
// arrive as regular query parameters and are reported immediately.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		errDesc := r.URL.Query().Get("error_description")
		select {
		case s.errChan <- fmt.Errorf("consent error: %s - %s", errParam, errDesc):
		default:
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, resultHTML(fmt.Sprintf("Authorization failed: %s", html.EscapeString(errParam)), ""))
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, relayHTML)
}

// handleToken receives the relayed fragment parameters.
func (s *CallbackServer) handleToken(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		select {
		case s.errChan <- fmt.Errorf("consent error: %s", errParam):
		default:
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, resultHTML(fmt.Sprintf("Authorization failed: %s", html.EscapeString(errParam)), ""))
		return
	}

	if state := q.Get("state"); state != s.expectedState {
		select {
		case s.errChan <- fmt.Errorf("state mismatch: expected %s, got %s", s.expectedState, state):
		default:
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, resultHTML("Authorization failed: invalid state parameter", ""))
		return
	}

	token := q.Get("access_token")
	if token == "" {
		select {
		case s.errChan <- fmt.Errorf("no access token received"):
		default:
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, resultHTML("Authorization failed: no token received", ""))
		return
	}

	expiresIn, _ := strconv.Atoi(q.Get("expires_in"))

	select {
	case s.tokenChan <- tokenResult{accessToken: token, expiresIn: expiresIn}:
	default:
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, resultHTML("Authorization successful!", "You can close this window and return to the application."))
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.port)
}

// relayHTML forwards the URL fragment to /token as query parameters.
const relayHTML = `<!DOCTYPE html>
<html>
<head><title>Calbridge - Signing in</title></head>
<body>
    <p>Completing sign-in...</p>
    <script>
        var fragment = window.location.hash.replace(/^#/, "");
        if (fragment) {
            window.location.replace("/token?" + fragment);
        } else {
            document.body.textContent = "Authorization failed: no token in redirect.";
        }
    </script>
</body>
</html>`

func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Calbridge</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
            box-shadow: 0 4px 24px rgba(0,0,0,0.08);
        }
        h1 {
            color: #333F50;
            margin: 0 0 8px 0;
            font-size: 24px;
            font-weight: 600;
        }
        p {
            color: #7B8088;
            margin: 0;
            font-size: 16px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}
