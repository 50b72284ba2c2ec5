// Package testutil provides fixture helpers for routelens tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteProject writes a map of project-relative paths to file contents
// under root, creating directories as needed
func WriteProject(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// SampleProject returns a small React-style project:
//
//	index.tsx -> App.tsx -> {Dashboard, Settings} -> Header -> Button
//
// App.tsx declares markup routes /dashboard and /settings.
func SampleProject() map[string]string {
	return map[string]string{
		"src/index.tsx": `import App from './App';
console.log(App);
`,
		"src/App.tsx": `import { Route, Routes } from 'react-router-dom';
import Dashboard from './views/Dashboard';
import Settings from './views/Settings';

export default function App() {
  return (
    <Routes>
      <Route path="/dashboard" element={<Dashboard />} />
      <Route path="/settings" element={<Settings />} />
    </Routes>
  );
}
`,
		"src/views/Dashboard.tsx": `import Header from '../components/Header';

export default function Dashboard() {
  return <Header title="Dashboard" />;
}
`,
		"src/views/Settings.tsx": `import Header from '../components/Header';

export default function Settings() {
  return <Header title="Settings" />;
}
`,
		"src/components/Header.tsx": `import Button from './Button';

export default function Header(props: { title: string }) {
  return <div>{props.title}<Button /></div>;
}
`,
		"src/components/Button.tsx": `export default function Button() {
  return <button>Click</button>;
}
`,
	}
}
