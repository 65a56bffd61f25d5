package service

func (s *Service) Load(id string) (*User, error) {
<<<<<<< Conflict 1 of 2
%%%%%%% Changes from base to side #1
-	u, err := s.repo.Find(id)
+	u, err := s.repo.FindByID(ctx, id)
+++++++ Contents of side #2
	u, err := s.cache.Get(id)
>>>>>>> Conflict 1 of 2 ends
	if err != nil {
		return nil, err
	}
	return u, nil
}

<<<<<<< Conflict 2 of 2
+++++++ Contents of side #1
func (s *Service) Save(u *User) error {
	return s.repo.Save(u)
+++++++ Contents of side #2
func (s *Service) Save(ctx context.Context, u *User) error {
	return s.repo.Store(ctx, u)
>>>>>>> Conflict 2 of 2 ends
}
