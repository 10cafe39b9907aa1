package server

import (
	"context"

	"resumescan/internal/dictionary"
	"resumescan/internal/observability"
)

// initializeDictionaries assembles the dictionary store chain: file directory
// first when configured, then the remote service, then the built-in
// dictionaries as the always-present fallback.
func (s *Server) initializeDictionaries(om *observability.ObservabilityManager) error {
	stores := make([]dictionary.Store, 0, 3)

	dictCfg := s.AppConfig.Dictionaries

	if dictCfg.Dir != "" {
		fileStore, err := dictionary.NewFileStore(dictCfg.Dir, s.Logger)
		if err != nil {
			return err
		}
		s.fileStore = fileStore
		stores = append(stores, fileStore)

		if dictCfg.Watch {
			fileStore.SetReloadHook(func() {
				metrics := om.GetMetrics()
				metrics.RecordInfrastructureMetric(context.Background(), "dictionary_reload", om)
			})
			if err := fileStore.StartWatching(); err != nil {
				return err
			}
			s.Logger.Info("Dictionary directory watching enabled", "dir", dictCfg.Dir)
		}
	}

	if dictCfg.Remote.Enabled {
		remoteCfg := dictionary.RemoteConfig{
			BaseURL:                 dictCfg.Remote.BaseURL,
			Token:                   dictCfg.Remote.Token,
			Timeout:                 dictCfg.Remote.Timeout,
			BreakerEnabled:          dictCfg.Remote.CircuitBreaker.Enabled,
			BreakerMaxRequests:      dictCfg.Remote.CircuitBreaker.MaxRequests,
			BreakerInterval:         dictCfg.Remote.CircuitBreaker.Interval,
			BreakerTimeout:          dictCfg.Remote.CircuitBreaker.Timeout,
			BreakerMinRequests:      dictCfg.Remote.CircuitBreaker.MinRequests,
			BreakerFailureThreshold: dictCfg.Remote.CircuitBreaker.FailureThreshold,
		}
		s.remoteStore = dictionary.NewRemoteStore(remoteCfg, s.Logger)
		stores = append(stores, s.remoteStore)
	}

	stores = append(stores, dictionary.NewBuiltinStore())
	s.Dictionaries = dictionary.NewChainStore(stores...)

	return nil
}

// stopDictionaries stops the file watcher if one is running
func (s *Server) stopDictionaries() {
	if s.fileStore != nil {
		s.fileStore.Stop()
	}
}
