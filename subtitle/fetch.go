package subtitle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/jellysan-cli/jellysan/constant"
	"github.com/jellysan-cli/jellysan/filesystem"
	"github.com/jellysan-cli/jellysan/network"
	"github.com/jellysan-cli/jellysan/util"
	"github.com/jellysan-cli/jellysan/where"
)

// fetchTrack downloads an external subtitle track into the temp directory and
// returns the local path. The caller owns the file.
func fetchTrack(ctx context.Context, url, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("subtitle fetch: %s", resp.Status)
	}

	path := filepath.Join(where.Temp(), util.SanitizeFilename(name))
	file, err := filesystem.API().Create(path)
	if err != nil {
		return "", err
	}
	defer util.Ignore(file.Close)

	if _, err = io.Copy(file, resp.Body); err != nil {
		_ = filesystem.API().Remove(path)
		return "", err
	}

	return path, nil
}
